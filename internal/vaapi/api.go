package vaapi

// Profile is a VAProfile value.
type Profile int32

const (
	ProfileMPEG2Main      Profile = 1
	ProfileMPEG4Main      Profile = 4
	ProfileH264Baseline   Profile = 5
	ProfileH264Main       Profile = 6
	ProfileH264High       Profile = 7
	ProfileVC1Main        Profile = 9
	ProfileVP8Version0_3  Profile = 14
	ProfileHEVCMain       Profile = 17
	ProfileHEVCMain10     Profile = 18
	ProfileVP9Profile0    Profile = 19
	ProfileVP9Profile1    Profile = 20
	ProfileVP9Profile2    Profile = 21
	ProfileVP9Profile3    Profile = 22
	ProfileHEVCMain12     Profile = 23
	ProfileHEVCMain422_10 Profile = 24
	ProfileHEVCMain422_12 Profile = 25
	ProfileHEVCMain444    Profile = 26
	ProfileHEVCMain444_10 Profile = 27
	ProfileHEVCMain444_12 Profile = 28
	ProfileAV1Profile0    Profile = 32
	ProfileAV1Profile1    Profile = 33
	ProfileH264High10     Profile = 36
)

// Entrypoint is a VAEntrypoint value.
type Entrypoint int32

const (
	EntrypointVLD      Entrypoint = 1
	EntrypointEncSlice Entrypoint = 6
)

// API opens VA displays. Library implements it over libva.
type API interface {
	// Available loads libva and libva-drm once.
	Available() error
	OpenDisplay(path string) (Display, error)
}

// Display is an initialized VA display bound to one render node.
type Display interface {
	Vendor() string
	Version() (major, minor int)
	Profiles() ([]Profile, error)
	Entrypoints(p Profile) ([]Entrypoint, error)
	// MaxPictureSize reads VAConfigAttribMaxPictureWidth and Height in one
	// query. Unsupported attributes read as zero.
	MaxPictureSize(p Profile, e Entrypoint) (width, height uint32, err error)
	Close() error
}

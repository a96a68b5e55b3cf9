package proto

const (
	DefaultMasterPort = 19998
	DefaultRootDir    = "/usertable"
	PathSeparator     = "/"
	RootPath          = "/"

	ReqIdKey    = "req-id"
	AuthTypeKey = "auth-type"

	// AuthTypeNoSASL is the only authentication mode the master accepts.
	AuthTypeNoSASL = "NOSASL"
)

type (
	FileID = int64
	Mode   = uint32
)

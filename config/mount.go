package config

// MountOptions holds the settings used when serving a tree over FUSE.
// go-fuse types stay in the server package.
type MountOptions struct {
	Debug      bool   // fuse wire debug logs
	FsName     string // shown as the mount source
	Name       string // fuse subtype
	AllowOther bool   // let other users read the mount
}

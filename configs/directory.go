package configs

// Directory modes. The mode is explicit so that an environment without a
// user directory never masquerades as one where lookups succeed.
const (
	// DirectoryModeMongo resolves usernames against the users collection.
	DirectoryModeMongo = "mongo"
	// DirectoryModeStatic resolves usernames against a fixed allowlist.
	DirectoryModeStatic = "static"
	// DirectoryModeOff resolves every username. Development only.
	DirectoryModeOff = "off"
)

type DirectoryConfig struct {
	Mode string `yaml:"mode"`
	// Usernames is the allowlist for static mode.
	Usernames []string `yaml:"usernames"`
}

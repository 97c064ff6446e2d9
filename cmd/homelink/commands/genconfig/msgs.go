package genconfig

// Message constants
const (
	MsgShort = "Print configuration TOML"
	MsgLong  = `The 'genconfig' command prints the built-in default configuration,
ready to be saved as .homelink.toml in a dotfiles repository. With
--effective it instead prints the configuration the other commands
would actually use, after merging the config file and HOMELINK_*
environment variables over the defaults.`

	MsgExample = `  # Seed a config file
  homelink genconfig > .homelink.toml

  # Inspect the merged configuration
  homelink genconfig --effective`
)

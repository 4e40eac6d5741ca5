package prog

import "flag"

// FlagSet wraps a [flag.FlagSet]. It also provides methods to register flags
// shared by multiple subprograms; each shared flag is registered at most once,
// and all callers get the same variable.
type FlagSet struct {
	*flag.FlagSet
	paths  *Paths
	json   *bool
	config *string
	log    *string
}

// Paths keeps the paths of the files shared between intr processes.
type Paths struct {
	DB, Sock string
}

// Paths returns the variables for the -db and -sock flags.
func (fs *FlagSet) Paths() *Paths {
	if fs.paths == nil {
		var p Paths
		fs.StringVar(&p.DB, "db", "",
			"Path to the database file of the action journal")
		fs.StringVar(&p.Sock, "sock", "",
			"Path to the UNIX socket of the control server")
		fs.paths = &p
	}
	return fs.paths
}

// JSON returns the variable for the -json flag.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo, -version or -signal in JSON")
		fs.json = &json
	}
	return fs.json
}

// Config returns the variable for the -config flag.
func (fs *FlagSet) Config() *string {
	if fs.config == nil {
		var config string
		fs.StringVar(&config, "config", "",
			"Path to the YAML configuration file")
		fs.config = &config
	}
	return fs.config
}

// Log returns the variable for the -log flag. The flag is always registered,
// and Run directs the log to the named file.
func (fs *FlagSet) Log() *string {
	if fs.log == nil {
		var log string
		fs.StringVar(&log, "log", "", "a file to write debug log to")
		fs.log = &log
	}
	return fs.log
}

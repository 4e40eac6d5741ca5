// Package config loads the YAML configuration file of intr.
//
// A configuration file looks like this:
//
//	signals: [SIGINT, SIGTERM]
//	sock: /run/user/1000/intr.sock
//	db: ~/.local/state/intr/db.bolt
//	log: /tmp/intr.log
//
// All fields are optional. Command-line flags take precedence over values from
// the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"src.intr.sh/pkg/sys"
)

// Config is the content of a configuration file.
type Config struct {
	// Names of the OS signals that trigger an interrupt, like "SIGINT". When
	// empty, sys.InterruptSignals is used.
	Signals []string `yaml:"signals"`
	// Path of the UNIX socket of the control server. When empty, no control
	// server is started.
	Sock string `yaml:"sock"`
	// Path of the database of the action journal. When empty, actions are not
	// journaled.
	DB string `yaml:"db"`
	// Path of the log file.
	Log string `yaml:"log"`
}

// Load reads the configuration from the named file. An empty name yields the
// zero Config.
func Load(name string) (*Config, error) {
	if name == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Parse parses a configuration from r. Unknown fields are rejected, and so are
// unknown signal names.
func Parse(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if _, err := cfg.OSSignals(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OSSignals resolves the names in Signals. It returns nil when Signals is
// empty.
func (cfg *Config) OSSignals() ([]os.Signal, error) {
	var sigs []os.Signal
	for _, name := range cfg.Signals {
		sig, err := sys.SignalByName(name)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// Override sets fields of cfg from non-empty values given on the command line.
func (cfg *Config) Override(sock, db, log string) {
	override(&cfg.Sock, sock)
	override(&cfg.DB, db)
	override(&cfg.Log, log)
}

func override(p *string, v string) {
	if v != "" {
		*p = v
	}
}

package opts

import (
	"github.com/walteh/proxypatch/pkg/config"
	"github.com/walteh/proxypatch/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// flags
	ConfigFile string
	Debug      bool
	Target     string
	Root       string
	Backup     bool
	Force      bool

	// set up before any command runs
	Config *config.Config
	Logger *log.Logger
}

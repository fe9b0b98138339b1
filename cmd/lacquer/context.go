package main

import (
	"strings"
	"sync"

	"lacquer/internal/config"
	"lacquer/internal/ipc"
)

type commandContext struct {
	configFlag *string
	userFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, userFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		userFlag:   userFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) client() (*ipc.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ipc.NewClient(cfg), nil
}

// user resolves the acting user: the --user flag when given, otherwise
// empty so the daemon applies its configured default.
func (c *commandContext) user() string {
	if c.userFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.userFlag)
}

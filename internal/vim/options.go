package vim

import (
	"fmt"
	"strings"
)

// OptionSetting names an option and its value for batch application. An
// empty Value sets a flag option.
type OptionSetting struct {
	Name  string
	Value string
}

// SetOption sets an option globally. An empty value sets a flag option
// (":set number").
func (c *Client) SetOption(name, value string) error {
	return c.setOption("set", name, value)
}

// SetLocalOption sets an option for the current buffer or window only.
func (c *Client) SetLocalOption(name, value string) error {
	return c.setOption("setlocal", name, value)
}

func (c *Client) setOption(cmd, name, value string) error {
	if value != "" {
		return c.Command(fmt.Sprintf("%s %s=%s", cmd, name, value))
	}
	return c.Command(fmt.Sprintf("%s %s", cmd, name))
}

// MultiSetOption applies several option settings at once.
func (c *Client) MultiSetOption(settings ...OptionSetting) error {
	for _, s := range settings {
		if err := c.SetOption(s.Name, s.Value); err != nil {
			return err
		}
	}
	return nil
}

// GetOption reads an option's current value.
func (c *Client) GetOption(name string) (string, error) {
	return c.Eval("&" + name)
}

// ToggleOption flips a flag option.
func (c *Client) ToggleOption(name string) error {
	return c.Command(fmt.Sprintf("set %s!", name))
}

// UnsetOption turns a flag option off.
func (c *Client) UnsetOption(name string) error {
	return c.Command(fmt.Sprintf("set no%s", name))
}

// SetOptionDefault restores an option to its default value.
func (c *Client) SetOptionDefault(name string) error {
	return c.Command(fmt.Sprintf("set %s&", name))
}

// RuntimePath returns the runtime path entries.
func (c *Client) RuntimePath() ([]string, error) {
	rtp, err := c.GetOption("rtp")
	if err != nil {
		return nil, err
	}
	if rtp == "" {
		return nil, nil
	}
	return strings.Split(rtp, ","), nil
}

// SetRuntimePath replaces the runtime path.
func (c *Client) SetRuntimePath(parts []string) error {
	return c.SetOption("rtp", strings.Join(parts, ","))
}

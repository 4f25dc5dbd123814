package vim

import "fmt"

// Scope selects the variable scope a name lives in.
type Scope string

// Variable scopes.
const (
	// ScopeGlobal is the g: scope.
	ScopeGlobal Scope = "g"

	// ScopeBuffer is the buffer-local b: scope.
	ScopeBuffer Scope = "b"
)

// Let sets a global variable.
func (c *Client) Let(name string, value any) error {
	return c.LetScoped(ScopeGlobal, "", name, value)
}

// LetBufferLocal sets a buffer-local variable.
func (c *Client) LetBufferLocal(name string, value any) error {
	return c.LetScoped(ScopeBuffer, "", name, value)
}

// LetScoped sets a variable in the given scope. A non-empty namespace is
// prefixed onto the name with an underscore, the conventional grouping for
// variables belonging to one plugin.
func (c *Client) LetScoped(scope Scope, namespace, name string, value any) error {
	return c.Command(fmt.Sprintf("let %s=%s", composeVarName(scope, namespace, name), serializeValue(value)))
}

// MultiLet sets several variables under one namespace at once.
func (c *Client) MultiLet(namespace string, vars map[string]any) error {
	for name, value := range vars {
		if err := c.LetScoped(ScopeGlobal, namespace, name, value); err != nil {
			return err
		}
	}
	return nil
}

// Get reads a global variable. The second return is false when the variable
// does not exist.
func (c *Client) Get(name string) (string, bool, error) {
	return c.GetScoped(ScopeGlobal, "", name)
}

// GetBufferLocal reads a buffer-local variable.
func (c *Client) GetBufferLocal(name string) (string, bool, error) {
	return c.GetScoped(ScopeBuffer, "", name)
}

// GetScoped reads a variable from the given scope. A missing variable is an
// absence, not an error.
func (c *Client) GetScoped(scope Scope, namespace, name string) (string, bool, error) {
	full := composeVarName(scope, namespace, name)

	exists, err := c.EvalBool(fmt.Sprintf("exists(%s)", quoteSingle(full)))
	if err != nil {
		return "", false, err
	}
	if !exists {
		return "", false, nil
	}

	val, err := c.Eval(full)
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// composeVarName builds the fully scoped variable name.
func composeVarName(scope Scope, namespace, name string) string {
	if namespace != "" {
		name = namespace + "_" + name
	}
	return string(scope) + ":" + name
}

// serializeValue renders a Go value as a Vimscript literal. Strings are
// single-quoted; booleans become 0/1 since Vimscript conditions are numeric.
func serializeValue(value any) string {
	switch v := value.(type) {
	case string:
		return quoteSingle(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case nil:
		return "''"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Package js builds the client commands the live server sends to the browser.
// A command is a short JavaScript expression against the livesite client API;
// the client evaluates it when it receives a "js" event.
package js

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Command represents a JavaScript command to execute on the client.
type Command interface {
	// ToJS returns the JavaScript code to execute.
	ToJS() string
}

// Commands holds a sequence of commands.
type Commands []Command

// ToJS returns the JavaScript for all commands.
func (cs Commands) ToJS() string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		if code := c.ToJS(); code != "" {
			parts = append(parts, code)
		}
	}
	return strings.Join(parts, ";")
}

// String implements fmt.Stringer.
func (cs Commands) String() string {
	return cs.ToJS()
}

// jsCommand is a simple command holder.
type jsCommand struct {
	code string
}

func (c jsCommand) ToJS() string {
	return c.code
}

func (c jsCommand) String() string {
	return c.code
}

// call renders livesite.JS.<fn>(args...) with every argument JSON-encoded,
// which makes strings safe to embed in a script.
func call(fn string, args ...any) Command {
	encoded := make([]string, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			b = []byte("null")
		}
		encoded[i] = string(b)
	}
	return jsCommand{code: fmt.Sprintf("livesite.JS.%s(%s)", fn, strings.Join(encoded, ","))}
}

// JS is the namespace for client commands.
var JS = jsNamespace{}

type jsNamespace struct{}

// OpenTab opens url in a new tab with noopener and noreferrer.
func (js jsNamespace) OpenTab(url string) Command {
	return call("openTab", url)
}

// ScrollIntoView scrolls the element with the given id into view.
// The scroll is smooth unless Instant is passed.
func (js jsNamespace) ScrollIntoView(id string, opts ...ScrollOption) Command {
	config := scrollConfig{behavior: BehaviorSmooth}
	for _, opt := range opts {
		opt(&config)
	}
	return call("scrollIntoView", id, map[string]string{"behavior": config.behavior})
}

// Navigate performs a client-side route change to href.
func (js jsNamespace) Navigate(href string, opts ...NavigateOption) Command {
	config := navigateConfig{}
	for _, opt := range opts {
		opt(&config)
	}

	if config.replace {
		return call("navigate", href, map[string]bool{"replace": true})
	}
	return call("navigate", href)
}

// Redirect loads url as a full page load, optionally after a delay.
func (js jsNamespace) Redirect(url string, opts ...RedirectOption) Command {
	config := redirectConfig{}
	for _, opt := range opts {
		opt(&config)
	}

	if config.after > 0 {
		return call("redirect", url, map[string]int64{"after": config.after.Milliseconds()})
	}
	return call("redirect", url)
}

// AddClass adds CSS class(es) to the elements matching selector.
func (js jsNamespace) AddClass(selector, class string) Command {
	return call("addClass", selector, class)
}

// RemoveClass removes CSS class(es) from the elements matching selector.
func (js jsNamespace) RemoveClass(selector, class string) Command {
	return call("removeClass", selector, class)
}

// ToggleClass toggles CSS class(es) on the elements matching selector.
func (js jsNamespace) ToggleClass(selector, class string) Command {
	return call("toggleClass", selector, class)
}

// SetAttr sets an attribute on the elements matching selector.
func (js jsNamespace) SetAttr(selector, attr, value string) Command {
	return call("setAttr", selector, attr, value)
}

// SetText replaces the text content of the elements matching selector.
func (js jsNamespace) SetText(selector, text string) Command {
	return call("setText", selector, text)
}

// Show shows the elements matching selector.
func (js jsNamespace) Show(selector string) Command {
	return call("show", selector)
}

// Hide hides the elements matching selector, optionally after a delay.
func (js jsNamespace) Hide(selector string, opts ...RedirectOption) Command {
	config := redirectConfig{}
	for _, opt := range opts {
		opt(&config)
	}

	if config.after > 0 {
		return call("hide", selector, map[string]int64{"after": config.after.Milliseconds()})
	}
	return call("hide", selector)
}

// Pipe chains multiple commands.
func (js jsNamespace) Pipe(commands ...Command) Command {
	return jsCommand{code: Commands(commands).ToJS()}
}

// Scroll behaviors.
const (
	BehaviorSmooth  = "smooth"
	BehaviorInstant = "instant"
)

type scrollConfig struct {
	behavior string
}

type ScrollOption func(*scrollConfig)

// Instant disables the smooth scroll animation.
func Instant() ScrollOption {
	return func(c *scrollConfig) {
		c.behavior = BehaviorInstant
	}
}

type navigateConfig struct {
	replace bool
}

type NavigateOption func(*navigateConfig)

// Replace replaces the current history entry instead of pushing one.
func Replace() NavigateOption {
	return func(c *navigateConfig) {
		c.replace = true
	}
}

type redirectConfig struct {
	after time.Duration
}

type RedirectOption func(*redirectConfig)

// After delays the command on the client.
func After(d time.Duration) RedirectOption {
	return func(c *redirectConfig) {
		c.after = d
	}
}

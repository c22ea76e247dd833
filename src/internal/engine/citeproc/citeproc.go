// Package citeproc runs a citeproc-js processor script inside an
// embedded JavaScript runtime and exposes it through the engine
// contract. The script is supplied by the caller; this package only
// hosts it and bridges its data callbacks to Go.
package citeproc

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"cite/src/internal/engine"
)

// Processor is an evaluated citeproc-js script holding the CSL.Engine
// constructor. One Processor builds engines for one invocation; neither
// it nor the engines it builds are safe for concurrent use, since they
// share a single JS runtime.
type Processor struct {
	vm   *goja.Runtime
	ctor goja.Value
}

// Load evaluates source and captures the CSL.Engine constructor it must
// define.
func Load(source string) (*Processor, error) {
	vm := goja.New()
	if _, err := vm.RunString(source); err != nil {
		return nil, fmt.Errorf("evaluate processor script: %w", err)
	}
	csl := vm.Get("CSL")
	if csl == nil || goja.IsUndefined(csl) || goja.IsNull(csl) {
		return nil, errors.New("processor script defines no CSL object")
	}
	ctor := csl.ToObject(vm).Get("Engine")
	if ctor == nil || goja.IsUndefined(ctor) || goja.IsNull(ctor) {
		return nil, errors.New("processor script defines no CSL.Engine constructor")
	}
	return &Processor{vm: vm, ctor: ctor}, nil
}

// Factory adapts the processor to the engine.Factory signature.
func (p *Processor) Factory() engine.Factory {
	return func(dp engine.DataProvider, style, defaultLocale string, forceLocale bool) (engine.Engine, error) {
		return p.New(dp, style, defaultLocale, forceLocale)
	}
}

// New constructs a CSL.Engine bound to the provider's retrieveItem and
// retrieveLocale callbacks. Provider errors are thrown into the script
// and come back as Go errors from whichever engine call triggered the
// retrieval.
func (p *Processor) New(dp engine.DataProvider, style, defaultLocale string, forceLocale bool) (*Engine, error) {
	sys := p.vm.NewObject()
	if err := sys.Set("retrieveItem", func(id string) (map[string]any, error) {
		return dp.RetrieveItem(id)
	}); err != nil {
		return nil, err
	}
	if err := sys.Set("retrieveLocale", func(lang string) (string, error) {
		return dp.RetrieveLocale(lang)
	}); err != nil {
		return nil, err
	}
	obj, err := p.vm.New(p.ctor, sys, p.vm.ToValue(style), p.vm.ToValue(defaultLocale), p.vm.ToValue(forceLocale))
	if err != nil {
		return nil, fmt.Errorf("construct CSL engine: %w", err)
	}
	return &Engine{vm: p.vm, obj: obj}, nil
}

// Engine is one live CSL.Engine instance.
type Engine struct {
	vm  *goja.Runtime
	obj *goja.Object
}

var _ engine.Engine = (*Engine)(nil)

func (e *Engine) call(name string, args ...any) (goja.Value, error) {
	fn, ok := goja.AssertFunction(e.obj.Get(name))
	if !ok {
		return nil, fmt.Errorf("CSL engine has no %s function", name)
	}
	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = e.vm.ToValue(a)
	}
	v, err := fn(e.obj, vals...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// UpdateItems declares the active item id set.
func (e *Engine) UpdateItems(ids []string) error {
	_, err := e.call("updateItems", ids)
	return err
}

// MakeBibliography renders the active items and returns the ordered
// entry strings. citeproc-js returns a [metadata, entries] pair; the
// metadata half is discarded. A false return (style has no bibliography
// section) yields no entries and no error.
func (e *Engine) MakeBibliography() ([]string, error) {
	v, err := e.call("makeBibliography")
	if err != nil {
		return nil, err
	}
	exported := v.Export()
	if b, ok := exported.(bool); ok && !b {
		return nil, nil
	}
	pair, ok := exported.([]any)
	if !ok || len(pair) != 2 {
		return nil, fmt.Errorf("makeBibliography: expected a two-element result, got %T", exported)
	}
	raw, ok := pair[1].([]any)
	if !ok {
		return nil, fmt.Errorf("makeBibliography: expected entry list, got %T", pair[1])
	}
	entries := make([]string, len(raw))
	for i, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("makeBibliography: entry %d is %T, not a string", i, r)
		}
		entries[i] = s
	}
	return entries, nil
}

// MakeCitationCluster renders an in-text citation for ids.
func (e *Engine) MakeCitationCluster(ids []string) (string, error) {
	v, err := e.call("makeCitationCluster", ids)
	if err != nil {
		return "", err
	}
	s, ok := v.Export().(string)
	if !ok {
		return "", fmt.Errorf("makeCitationCluster: expected a string, got %T", v.Export())
	}
	return s, nil
}

// SetOutputFormat switches the format of subsequent renders.
func (e *Engine) SetOutputFormat(format string) error {
	_, err := e.call("setOutputFormat", format)
	return err
}

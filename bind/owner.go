package bind

import (
	"context"

	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/namespace"
)

// Owner is a native object, such as a pixmap, identified by its handle.
// Submodules are attached when the owner is created and never change.
type Owner struct {
	methods    map[string]boundMethod
	submodules map[string]*Submodule
	order      []string
	handle     uint64
}

// NewOwner wraps handle and attaches the extension methods and one instance
// of every submodule declared by mods. Two modules declaring the same
// submodule or method name is a configuration error.
func NewOwner(handle uint64, mods ...*Module) (*Owner, error) {
	o := &Owner{
		methods:    make(map[string]boundMethod),
		submodules: make(map[string]*Submodule),
		handle:     handle,
	}
	for _, m := range mods {
		for name, bm := range m.methods {
			if _, dup := o.methods[name]; dup {
				return nil, errors.New(errors.PhaseCompose, errors.KindCollision).
					Path(m.unit.Name).
					Symbol(name).
					Detail("owner method declared by more than one unit").
					Build()
			}
			o.methods[name] = bm
		}
		for _, st := range m.submodules {
			if _, dup := o.submodules[st.name]; dup {
				return nil, errors.New(errors.PhaseCompose, errors.KindCollision).
					Path(m.unit.Name).
					Symbol(st.name).
					Detail("submodule declared by more than one unit").
					Build()
			}
			o.submodules[st.name] = &Submodule{
				typ:    st,
				owner:  o,
				consts: m.consts,
			}
			o.order = append(o.order, st.name)
		}
	}
	return o, nil
}

// Handle returns the native handle passed as first argument to every method.
func (o *Owner) Handle() uint64 {
	return o.handle
}

// Submodule returns the attached submodule with the given name.
func (o *Owner) Submodule(name string) (*Submodule, bool) {
	s, ok := o.submodules[name]
	return s, ok
}

// Submodules returns the attached submodule names in attachment order.
func (o *Owner) Submodules() []string {
	return append([]string(nil), o.order...)
}

// Methods returns the extension method names in ascending order.
func (o *Owner) Methods() []string {
	return sortedNames(o.methods)
}

// Call invokes an extension method with the owner handle prepended to args.
func (o *Owner) Call(ctx context.Context, method string, args ...uint64) ([]uint64, error) {
	bm, ok := o.methods[method]
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "method", method)
	}
	return invoke(ctx, bm, o.handle, args)
}

// Submodule is a per-owner group of methods sharing the unit's constants.
type Submodule struct {
	typ    *submoduleType
	owner  *Owner
	consts *namespace.Namespace
}

// Name returns the submodule name
func (s *Submodule) Name() string {
	return s.typ.name
}

// Owner returns the owner the submodule is attached to.
func (s *Submodule) Owner() *Owner {
	return s.owner
}

// C returns the constants namespace of the unit that declared the submodule.
// Every owner's submodule returns the same namespace.
func (s *Submodule) C() *namespace.Namespace {
	return s.consts
}

// Methods returns the method names in ascending order.
func (s *Submodule) Methods() []string {
	return append([]string(nil), s.typ.names...)
}

// Call invokes a submodule method with the owner handle prepended to args.
func (s *Submodule) Call(ctx context.Context, method string, args ...uint64) ([]uint64, error) {
	bm, ok := s.typ.methods[method]
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, s.typ.name+" method", method)
	}
	return invoke(ctx, bm, s.owner.handle, args)
}

func invoke(ctx context.Context, bm boundMethod, handle uint64, args []uint64) ([]uint64, error) {
	params := make([]uint64, 0, len(args)+1)
	params = append(params, handle)
	params = append(params, args...)
	res, err := bm.fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.NativeCall(bm.native, err)
	}
	return res, nil
}

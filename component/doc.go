// Package component implements the component tree and parameter-resolution
// engine: a live hierarchy of heterogeneous components that other goroutines
// concurrently read and reconfigure, addressed by textual descriptors instead
// of compile-time APIs.
//
// # Overview
//
// A tree is made of nodes that each embed *Base. Base carries the node's
// instance name, its place in the hierarchy, its declared parameters and its
// lifecycle state. Concrete components add their own parameters and behavior
// on top:
//
//	type Camera struct {
//		*component.Base
//		brightness *param.Param[int]
//	}
//
//	func NewCamera(base *component.Base) (component.Component, error) {
//		c := &Camera{
//			Base: base,
//			brightness: param.MustNew(param.Def[int]{
//				Name:        "brightness",
//				Description: "Sensor brightness",
//				Default:     50,
//				Valid:       param.Range(0, 255),
//			}),
//		}
//		if err := c.AddParam(c.brightness); err != nil {
//			return nil, err
//		}
//		return c, nil
//	}
//
// Trees start from NewRoot and grow with AddSub, which takes a Factory so
// the new node is built on a Base the tree controls:
//
//	root, _ := component.NewRoot("engine")
//	cam, _ := root.AddSub("camera", NewCamera)
//
// # Descriptors
//
// Parameters are addressed by textual descriptors. A multi-segment
// descriptor names a chain of instance names ending in a parameter name and
// matches at most one parameter:
//
//	"camera:brightness"         // parameter brightness of child camera
//	"deck:camera:brightness"    // same, one level deeper
//
// A single-segment descriptor is relative: it matches every parameter with
// that name anywhere at or below the component it is resolved against.
// Relative descriptors are how one call reconfigures a whole subtree:
//
//	matches, err := root.SetParamString("brightness", "128")
//
// ResolveAll returns every match; ResolveUnique insists on exactly one and
// reports ambiguity otherwise.
//
// # Typed Access
//
// The typed accessors are package functions because methods cannot be
// generic. They resolve a descriptor and then check the concrete parameter
// type, failing with ErrIncorrectParameterType on a mismatch:
//
//	v, err := component.GetParamUnique[int](root, "camera:brightness")
//	err = component.SetParamUnique(root, "camera:brightness", 128)
//
// GetParam and SetParam are the relative forms: they apply to every match
// and collect per-match failures without masking the matches that worked.
// SubAs fetches a child by name as a concrete type:
//
//	cam, err := component.SubAs[*Camera](root, "camera")
//
// # Lifecycle
//
// A component is Constructed until Init runs and Initialized after. Init
// and Uninit cascade: Init runs parents before children, Uninit tears down
// in reverse order and keeps going past individual failures. Components
// hook the cascade by implementing any of PreIniter, PostIniter,
// PreUniniter and PostUniniter.
//
// Adding a child under an already-initialized parent initializes the child
// before it becomes visible to lookups, so a lookup never observes an
// uninitialized component inside a live subtree.
//
// # Concurrency
//
// Every node has its own RWMutex guarding its children and parameter list.
// Locks are only ever taken parent before child, so concurrent mutation of
// disjoint subtrees does not contend. AddSub reserves the child name under
// the lock, runs the factory outside it, and re-validates before making the
// child visible; two concurrent AddSub calls with the same name end with
// exactly one winner. Parameter values have their own per-cell locking, see
// the param package.
//
// # Registration
//
// Component types are registered explicitly on a Registry rather than
// through init() side effects, which keeps tests isolated and the set of
// available types under the application's control. Each component package
// exports a Register function:
//
//	func Register(reg *component.Registry) error {
//		return reg.Register(component.Registration{
//			Name:    "camera",
//			Factory: NewCamera,
//			Params:  cameraParams,
//		})
//	}
//
// The Registration's parameter metadata doubles as a config-validation
// schema, see the config package.
package component

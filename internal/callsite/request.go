package callsite

// Request is one of MethodCall, SetterProperty, Annotation or Constructor.
type Request interface {
	request()
}

// MethodCall matches a node used inside a call to any of Names. When
// RequireAncestorIn is non-empty, the resolved target's declaring type must
// be, or extend, one of those qualified type names.
type MethodCall struct {
	Names             []string
	RequireAncestorIn []string
}

// SetterProperty matches a node set through a JavaBean setter call or a
// <bean><property name="..."> markup element.
type SetterProperty struct {
	PropertyName string
}

// Annotation matches a node inside an annotation with the given fully
// qualified name.
type Annotation struct {
	QualifiedName string
}

// Constructor matches a node inside a constructor call of the given type
// name.
type Constructor struct {
	Name string
}

func (MethodCall) request()     {}
func (SetterProperty) request() {}
func (Annotation) request()     {}
func (Constructor) request()    {}

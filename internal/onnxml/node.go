package onnxml

// Node is the operator view of a graph node that converter bodies read
// attributes from. It is a copy of the relevant NodeProto fields, detached
// from the parsed model.
type Node struct {
	Name       string
	OpType     string
	Inputs     []string
	Outputs    []string
	Attributes []Attribute
	Domain     string
}

// Attribute is a node attribute in its wire-level representation.
type Attribute struct {
	Name    string
	Type    int32
	F       float32
	I       int64
	S       []byte
	Floats  []float32
	Ints    []int64
	Strings [][]byte
}

func (n *Node) attr(name string) *Attribute {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return &n.Attributes[i]
		}
	}
	return nil
}

// IntAttr returns an integer attribute or the default value.
func (n *Node) IntAttr(name string, defaultVal int64) int64 {
	if a := n.attr(name); a != nil {
		return a.I
	}
	return defaultVal
}

// IntsAttr returns an integer-array attribute and whether it is present.
func (n *Node) IntsAttr(name string) ([]int64, bool) {
	if a := n.attr(name); a != nil {
		return a.Ints, true
	}
	return nil, false
}

// FloatsAttr returns a float-array attribute and whether it is present.
func (n *Node) FloatsAttr(name string) ([]float32, bool) {
	if a := n.attr(name); a != nil {
		return a.Floats, true
	}
	return nil, false
}

// StringAttr returns a string attribute or the default value.
func (n *Node) StringAttr(name, defaultVal string) string {
	if a := n.attr(name); a != nil {
		return string(a.S)
	}
	return defaultVal
}

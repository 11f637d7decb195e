package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot decodes the top level of a graph file.
type fileRoot struct {
	Graphs []*Graph  `hcl:"graph,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Graph is the schema of a `graph` block.
type Graph struct {
	Name       string       `hcl:"name,label"`
	Parameters []*Parameter `hcl:"parameter,block"`
	Contexts   []*Context   `hcl:"context,block"`
}

// Parameter is the schema of a `parameter` block.
type Parameter struct {
	Name        string    `hcl:"name,label"`
	Type        string    `hcl:"type"`
	Value       cty.Value `hcl:"value,optional"`
	Exposed     bool      `hcl:"exposed,optional"`
	ExposedName string    `hcl:"exposed_name,optional"`
}

// Context is the schema of a `context` block.
type Context struct {
	Name       string         `hcl:"name,label"`
	Type       string         `hcl:"type"`
	Generator  string         `hcl:"generator,optional"`
	Outputs    []string       `hcl:"outputs,optional"`
	Slots      hcl.Expression `hcl:"slots,optional"`
	Attributes []*Attribute   `hcl:"attribute,block"`
	Blocks     []*Block       `hcl:"block,block"`
}

// Attribute is the schema of an `attribute` block.
type Attribute struct {
	Name     string `hcl:"name,label"`
	Type     string `hcl:"type"`
	Location string `hcl:"location,optional"`
}

// Block is the schema of a `block` block.
type Block struct {
	Name     string         `hcl:"name,label"`
	Spawner  string         `hcl:"spawner,optional"`
	Callback string         `hcl:"callback,optional"`
	Slots    hcl.Expression `hcl:"slots,optional"`
}

package ast

// Target is a stage or sprite: the unit that owns variables, lists,
// costumes, procedures, and scripts.
type Target struct {
	Base
	Name       string
	IsStage    bool
	Variables  []*VariableDecl
	Lists      []*ListDecl
	Costumes   []*CostumeDecl
	Procedures []*Procedure
	Scripts    []*EventScript
}

// Project is the root of the AST: an ordered list of targets,
// stage-first after resolution and codegen layering.
type Project struct {
	Base
	Targets []*Target
}

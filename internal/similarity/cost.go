package similarity

// CostModel defines the edit operation costs the TSED kernel charges.
// Costs are real-valued; accumulation happens in double precision.
type CostModel interface {
	// Insert is the cost of inserting a into the target tree.
	Insert(n *Node) float64
	// Delete is the cost of deleting n from the source tree.
	Delete(n *Node) float64
	// Rename is the cost of turning a into b in place. It must return 0
	// when a and b have the same label and the same (or suppressed) value.
	Rename(a, b *Node) float64
}

// DefaultCostModel implements the default cost table: unit insert/delete,
// and a rename cost that is 0 for an exact label+value match and
// RenameCost otherwise. This is the cost model the pair orchestrator uses
// unless a language-specific model is configured.
type DefaultCostModel struct {
	InsertCost float64
	DeleteCost float64
	RenameCost float64
}

// NewDefaultCostModel returns the cost model with its stated defaults
// (delete=1.0, insert=1.0, rename=0.3).
func NewDefaultCostModel() *DefaultCostModel {
	return &DefaultCostModel{InsertCost: 1.0, DeleteCost: 1.0, RenameCost: 0.3}
}

// NewCostModelWithRenameCost returns a default cost model with a caller
// supplied rename cost, for the CLI's --rename-cost override.
func NewCostModelWithRenameCost(renameCost float64) *DefaultCostModel {
	return &DefaultCostModel{InsertCost: 1.0, DeleteCost: 1.0, RenameCost: renameCost}
}

func (c *DefaultCostModel) Insert(n *Node) float64 { return c.InsertCost }
func (c *DefaultCostModel) Delete(n *Node) float64 { return c.DeleteCost }

func (c *DefaultCostModel) Rename(a, b *Node) float64 {
	if a == nil || b == nil {
		return c.RenameCost
	}
	if a.Label == b.Label && a.Value == b.Value {
		return 0.0
	}
	return c.RenameCost
}

// StructuralCostModel weighs structural node labels (declarations, control
// flow) more heavily than expression or literal labels. Categories are
// supplied by the language profile so the model stays data-driven rather
// than hard-coded to one language's AST shape.
type StructuralCostModel struct {
	Base              *DefaultCostModel
	StructuralLabels  map[string]bool
	ControlFlowLabels map[string]bool
	StructuralWeight  float64
	ControlFlowWeight float64
}

// NewStructuralCostModel builds a StructuralCostModel from a profile's
// declared structural/control-flow label sets.
func NewStructuralCostModel(base *DefaultCostModel, structural, controlFlow []string) *StructuralCostModel {
	m := &StructuralCostModel{
		Base:              base,
		StructuralLabels:  toSet(structural),
		ControlFlowLabels: toSet(controlFlow),
		StructuralWeight:  1.5,
		ControlFlowWeight: 1.3,
	}
	return m
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func (m *StructuralCostModel) weight(label string) float64 {
	if m.StructuralLabels[label] {
		return m.StructuralWeight
	}
	if m.ControlFlowLabels[label] {
		return m.ControlFlowWeight
	}
	return 1.0
}

func (m *StructuralCostModel) Insert(n *Node) float64 {
	if n == nil {
		return m.Base.Insert(n)
	}
	return m.Base.Insert(n) * m.weight(n.Label)
}

func (m *StructuralCostModel) Delete(n *Node) float64 {
	if n == nil {
		return m.Base.Delete(n)
	}
	return m.Base.Delete(n) * m.weight(n.Label)
}

func (m *StructuralCostModel) Rename(a, b *Node) float64 {
	base := m.Base.Rename(a, b)
	if base == 0 || a == nil || b == nil {
		return base
	}
	w := (m.weight(a.Label) + m.weight(b.Label)) / 2.0
	return base * w
}

package costing

import (
	"errors"
	"testing"
)

func TestGraphOrderSuppliersFirst(t *testing.T) {
	// flour -> dough -> bread, plus flour used directly by bread
	flour := Node{Kind: KindIngredient, ID: "flour"}
	dough := Node{Kind: KindBase, ID: "dough"}
	bread := Node{Kind: KindRecipe, ID: "bread"}

	g := NewGraph()
	g.AddEdge(flour, dough)
	g.AddEdge(flour, bread)
	g.AddEdge(dough, bread)

	order, err := g.Order(flour)
	if err != nil {
		t.Fatalf("Order returned error: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("Expected 3 nodes in order, got %d", len(order))
	}

	pos := make(map[Node]int)
	for i, n := range order {
		pos[n] = i
	}
	if pos[flour] > pos[dough] {
		t.Errorf("Ingredient ordered after base: %v", order)
	}
	if pos[dough] > pos[bread] {
		t.Errorf("Base ordered after recipe: %v", order)
	}
}

func TestGraphOrderDiamond(t *testing.T) {
	ing := Node{Kind: KindIngredient, ID: "tomato"}
	sauce := Node{Kind: KindBase, ID: "sauce"}
	dough := Node{Kind: KindBase, ID: "dough"}
	pizza := Node{Kind: KindRecipe, ID: "pizza"}

	g := NewGraph()
	g.AddEdge(ing, sauce)
	g.AddEdge(ing, dough)
	g.AddEdge(sauce, pizza)
	g.AddEdge(dough, pizza)

	order, err := g.Order(ing)
	if err != nil {
		t.Fatalf("Order returned error: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("Expected 4 nodes, got %d: %v", len(order), order)
	}
	if order[0] != ing {
		t.Errorf("Expected root first, got %v", order[0])
	}
	if order[len(order)-1] != pizza {
		t.Errorf("Expected the shared consumer last, got %v", order[len(order)-1])
	}
}

func TestGraphOrderCycle(t *testing.T) {
	a := Node{Kind: KindRecipe, ID: "a"}
	b := Node{Kind: KindRecipe, ID: "b"}

	g := NewGraph()
	g.AddEdge(a, b)
	g.AddEdge(b, a)

	if _, err := g.Order(a); !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("Expected ErrCycleDetected, got %v", err)
	}
}

func TestGraphOrderSelfLoop(t *testing.T) {
	a := Node{Kind: KindRecipe, ID: "a"}

	g := NewGraph()
	g.AddEdge(a, a)

	if _, err := g.Order(a); !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("Expected ErrCycleDetected, got %v", err)
	}
}

func TestGraphAffected(t *testing.T) {
	flour := Node{Kind: KindIngredient, ID: "flour"}
	dough := Node{Kind: KindBase, ID: "dough"}
	bread := Node{Kind: KindRecipe, ID: "bread"}
	cake := Node{Kind: KindRecipe, ID: "cake"}

	g := NewGraph()
	g.AddEdge(flour, dough)
	g.AddEdge(dough, bread)
	g.AddNode(cake)

	affected := g.Affected(flour)
	if len(affected) != 3 {
		t.Fatalf("Expected 3 affected nodes, got %d: %v", len(affected), affected)
	}
	for _, n := range affected {
		if n == cake {
			t.Errorf("Unrelated node reported as affected")
		}
	}
}

func TestGraphAddEdgeDeduplicates(t *testing.T) {
	a := Node{Kind: KindIngredient, ID: "a"}
	b := Node{Kind: KindBase, ID: "b"}

	g := NewGraph()
	g.AddEdge(a, b)
	g.AddEdge(a, b)

	if got := len(g.Consumers(a)); got != 1 {
		t.Fatalf("Expected 1 consumer after duplicate AddEdge, got %d", got)
	}
}

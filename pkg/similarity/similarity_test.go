// ABOUTME: Tests for content/title similarity and feature-intent heuristics
// ABOUTME: Verifies normalization rules, ceilings and signal detection

package similarity

import "testing"

func TestContentIdenticalTokenSets(t *testing.T) {
	score := Content("alpha beta gamma", "gamma beta alpha alpha")
	if score != 1.0 {
		t.Errorf("Expected 1.0 for identical token sets, got %f", score)
	}
}

func TestContentBothEmpty(t *testing.T) {
	if score := Content("", ""); score != 1.0 {
		t.Errorf("Expected 1.0 for two empty documents, got %f", score)
	}
}

func TestContentOneEmpty(t *testing.T) {
	if score := Content("", "some words"); score != 0.0 {
		t.Errorf("Expected 0.0 for empty vs non-empty, got %f", score)
	}
}

func TestContentIgnoresEdgePunctuation(t *testing.T) {
	score := Content("auth and catalog.", "auth and catalog,")
	if score != 1.0 {
		t.Errorf("Expected punctuation-insensitive match, got %f", score)
	}
}

func TestContentPartialOverlap(t *testing.T) {
	// 2 shared tokens, 4 total
	score := Content("alpha beta", "beta gamma alpha delta")
	if score != 0.5 {
		t.Errorf("Expected 0.5, got %f", score)
	}
}

func TestContentGrowthStaysAboveUpdateFloor(t *testing.T) {
	// A short document extended with several new feature phrases must stay
	// recognizable as the same document.
	before := "Basic platform with auth and catalog."
	after := "Basic platform with auth and catalog, plus shopping cart, payment processing, order management, and analytics dashboard with filtering."
	score := Content(before, after)
	if score <= MinUpdateSimilarity {
		t.Errorf("Expected similarity above %f, got %f", float64(MinUpdateSimilarity), score)
	}
}

func TestTitleExactMatch(t *testing.T) {
	if score := Title("E-Commerce Platform", "E-Commerce Platform"); score != 1.0 {
		t.Errorf("Expected 1.0, got %f", score)
	}
}

func TestTitleGenericTitles(t *testing.T) {
	// Both normalize to nothing once the PRD prefix and date are stripped
	score := Title("PRD - 1/2/2025", "PRD")
	if score != GenericTitleScore {
		t.Errorf("Expected %f for generic titles, got %f", float64(GenericTitleScore), score)
	}
}

func TestTitleLopsided(t *testing.T) {
	score := Title("Inventory Service", "PRD 3/4/2025")
	if score != LopsidedTitleScore {
		t.Errorf("Expected %f, got %f", float64(LopsidedTitleScore), score)
	}
}

func TestTitleEnhancementCeiling(t *testing.T) {
	// "X Enhancement" fully overlaps with "X" and is capped at the ceiling
	score := Title("Task App Enhancement", "Task App")
	if score != EnhancementCeiling {
		t.Errorf("Expected %f, got %f", float64(EnhancementCeiling), score)
	}
}

func TestTitleEnhancementNoOverlap(t *testing.T) {
	score := Title("Billing Enhancement", "Inventory")
	if score != 0.0 {
		t.Errorf("Expected 0.0 for disjoint enhancement titles, got %f", score)
	}
}

func TestTitleStripsDates(t *testing.T) {
	score := Title("Release Plan 12/31/2025", "Release Plan")
	if score != 1.0 {
		t.Errorf("Expected date-insensitive match, got %f", score)
	}
}

func TestHasNewFeatureSignalNewKeyword(t *testing.T) {
	if !HasNewFeatureSignal("plain overview text", "plain overview text now mentioning a dashboard") {
		t.Error("Expected new vocabulary keyword to signal a feature")
	}
}

func TestHasNewFeatureSignalMoreHeadings(t *testing.T) {
	if !HasNewFeatureSignal("just a paragraph", "# Overview\njust a paragraph") {
		t.Error("Expected additional heading to signal a feature")
	}
}

func TestHasNewFeatureSignalBulletGrowth(t *testing.T) {
	if !HasNewFeatureSignal("- apples", "- apples\n- pears\n- plums") {
		t.Error("Expected bullet growth beyond one line to signal a feature")
	}
}

func TestHasNewFeatureSignalOneExtraBulletTolerated(t *testing.T) {
	if HasNewFeatureSignal("- apples", "- apples\n- pears") {
		t.Error("Expected a single extra bullet not to signal a feature")
	}
}

func TestHasNewFeatureSignalIdentical(t *testing.T) {
	content := "# Doc\n- apples\n- pears"
	if HasNewFeatureSignal(content, content) {
		t.Error("Expected identical content to carry no signal")
	}
}

func TestHasAddFeatureIntentLanguage(t *testing.T) {
	if !HasAddFeatureIntent("We should add feature flags for rollout", false) {
		t.Error("Expected 'add feature' phrasing to signal intent")
	}
}

func TestHasAddFeatureIntentCategoryPhrase(t *testing.T) {
	if !HasAddFeatureIntent("Integrate a shopping cart for guests", false) {
		t.Error("Expected category phrase to signal intent")
	}
}

func TestHasAddFeatureIntentEnhancementOrigin(t *testing.T) {
	if !HasAddFeatureIntent("nothing relevant here", true) {
		t.Error("Expected enhancement origin to signal intent")
	}
}

func TestHasAddFeatureIntentNone(t *testing.T) {
	if HasAddFeatureIntent("release notes for version two", false) {
		t.Error("Expected no intent in neutral text")
	}
}

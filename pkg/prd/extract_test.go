// ABOUTME: Tests for feature extraction and relevant-content filtering
// ABOUTME: Verifies bullet/heading selection rules and section retention

package prd

import (
	"strings"
	"testing"
)

func TestExtractFeaturesFromBullets(t *testing.T) {
	content := "# App\n\n- User login and accounts\n- Data export to CSV\n"
	features := ExtractFeatures(content)
	if len(features) != 2 {
		t.Fatalf("Expected 2 features, got %d", len(features))
	}
	if features[0].ID != "feature_1" {
		t.Errorf("Expected sequential id 'feature_1', got '%s'", features[0].ID)
	}
	if features[0].Title != "User login and accounts" {
		t.Errorf("Expected bullet text as title, got '%s'", features[0].Title)
	}
}

func TestExtractFeaturesSkipsShortBullets(t *testing.T) {
	features := ExtractFeatures("- ok\n- Meaningful feature description\n")
	if len(features) != 1 {
		t.Fatalf("Expected 1 feature, got %d", len(features))
	}
	if features[0].Title != "Meaningful feature description" {
		t.Errorf("Expected the long bullet, got '%s'", features[0].Title)
	}
}

func TestExtractFeaturesIgnoresNestedBullets(t *testing.T) {
	content := "- Payments and billing\n  - nested implementation detail\n"
	features := ExtractFeatures(content)
	if len(features) != 1 {
		t.Fatalf("Expected 1 top-level feature, got %d", len(features))
	}
}

func TestExtractFeaturesHeadingFallback(t *testing.T) {
	content := "# Overview\n\n## Architecture Details\n\nNo bullets anywhere.\n"
	features := ExtractFeatures(content)
	if len(features) != 2 {
		t.Fatalf("Expected 2 heading features, got %d", len(features))
	}
	if !strings.HasPrefix(features[0].ID, "heading_") {
		t.Errorf("Expected heading id, got '%s'", features[0].ID)
	}
	if features[1].Title != "Architecture Details" {
		t.Errorf("Expected heading text, got '%s'", features[1].Title)
	}
}

func TestExtractFeaturesEmpty(t *testing.T) {
	if features := ExtractFeatures(""); len(features) != 0 {
		t.Errorf("Expected no features, got %d", len(features))
	}
}

func TestExtractFeaturesTruncatesDescription(t *testing.T) {
	long := "- " + strings.Repeat("x", 80) + "\n"
	features := ExtractFeatures(long)
	if len(features) != 1 {
		t.Fatalf("Expected 1 feature, got %d", len(features))
	}
	if len(features[0].Description) != 53 {
		t.Errorf("Expected 50 chars plus ellipsis, got %d", len(features[0].Description))
	}
	if !strings.HasSuffix(features[0].Description, "...") {
		t.Errorf("Expected ellipsis suffix, got '%s'", features[0].Description)
	}
}

func TestExtractRelevantContentKeepsMatchingSections(t *testing.T) {
	content := "preamble line\n# Checkout\ncart and payment details\n"
	got := ExtractRelevantContent(content, []string{"checkout"})
	if strings.Contains(got, "preamble") {
		t.Errorf("Expected preamble dropped, got '%s'", got)
	}
	if !strings.Contains(got, "# Checkout") {
		t.Errorf("Expected heading kept, got '%s'", got)
	}
	if !strings.Contains(got, "cart and payment details") {
		t.Errorf("Expected section body kept, got '%s'", got)
	}
}

func TestExtractRelevantContentFeatureMentionOpensSection(t *testing.T) {
	content := "the search filter is central\nfollow-up detail\n"
	got := ExtractRelevantContent(content, []string{"search filter"})
	if !strings.Contains(got, "search filter") {
		t.Errorf("Expected mentioning line kept, got '%s'", got)
	}
	if !strings.Contains(got, "follow-up detail") {
		t.Errorf("Expected following line kept, got '%s'", got)
	}
}

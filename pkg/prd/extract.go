// ABOUTME: Feature extraction and focused-content generation from PRD text
// ABOUTME: Bullet/heading scanning and best-effort relevant-line filtering

package prd

import (
	"fmt"
	"strings"

	"github.com/nainya/prdstore/pkg/markdown"
)

// minFeatureLength filters out very short bullet and heading texts.
const minFeatureLength = 5

// ExtractFeatures derives feature descriptors from document content.
// Top-level "-" and "*" bullet items longer than minFeatureLength become
// features; if none exist, heading lines are used instead. IDs are sequential
// within this call only.
func ExtractFeatures(content string) []Feature {
	outline := markdown.Scan(content)

	var features []Feature
	id := 1
	for _, item := range outline.Items {
		if !item.TopLevel || (item.Marker != '-' && item.Marker != '*') {
			continue
		}
		if len(item.Text) <= minFeatureLength {
			continue
		}
		features = append(features, Feature{
			ID:          fmt.Sprintf("feature_%d", id),
			Title:       item.Text,
			Description: truncate(item.Text, 50),
		})
		id++
	}

	if len(features) > 0 {
		return features
	}

	for _, heading := range outline.Headings {
		if len(heading) <= minFeatureLength {
			continue
		}
		features = append(features, Feature{
			ID:          fmt.Sprintf("heading_%d", id),
			Title:       heading,
			Description: truncate(heading, 50),
		})
		id++
	}

	return features
}

// ExtractRelevantContent filters content down to the lines relevant to the
// selected features: lines mentioning a selected feature, heading lines, and
// the body of a section once it has been entered. Best effort; the result is
// not guaranteed to be well-formed markdown.
func ExtractRelevantContent(content string, selectedFeatures []string) string {
	lowered := make([]string, len(selectedFeatures))
	for i, f := range selectedFeatures {
		lowered[i] = strings.ToLower(f)
	}

	var kept []string
	inSection := false
	for _, line := range strings.Split(content, "\n") {
		lowerLine := strings.ToLower(line)
		mentionsFeature := false
		for _, f := range lowered {
			if strings.Contains(lowerLine, f) {
				mentionsFeature = true
				break
			}
		}

		switch {
		case mentionsFeature || strings.HasPrefix(line, "#"):
			inSection = true
			kept = append(kept, line)
		case inSection:
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

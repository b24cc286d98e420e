// ABOUTME: Prompt template for the planning model
// ABOUTME: Asks for mindmap nodes, connections and a PRD in marked sections

package planner

import "fmt"

const promptTemplate = `Based on this project idea: %q

Generate a comprehensive response with three sections. Follow the exact format below:

=== MINDMAP_NODES ===
A JSON array of canvas nodes. Each node has "id", "type" (one of
"summaryNode", "techStackCard", "featureCard"), "position" with "x" and "y",
and "data" with "title" and "content". Feature cards additionally carry
"moduleType" and a "features" array of objects with "id", "title",
"description" and "category". Include a project summary node, a technology
stack node, and one feature card per module of the system (frontend, backend,
mobile, devops, AI as applicable), each with at least three features.

=== CONNECTIONS ===
A JSON array of edges between the nodes above. Each edge has "id", "source"
and "target", where source and target are node ids. Connect the summary to
the tech stack and the tech stack to every feature card.

=== PRD ===
# Product Requirements Document

## Project Summary
Comprehensive project overview, goals, and vision.

## Technology Stack
One subsection per module describing frameworks, libraries and tools.

## Features
One "### " heading per feature named on the feature cards, each followed by a
short description and a bullet list of concrete requirements.

Output the three markers exactly as shown, in that order, with nothing before
the first marker.`

// BuildPrompt renders the planning prompt for a project description.
func BuildPrompt(description string) string {
	return fmt.Sprintf(promptTemplate, description)
}

package retrieval

// sectionKind determines how a context section is rendered into a prompt.
type sectionKind int

const (
	kindSimilar sectionKind = iota
	kindKnowledge
	kindStyle
)

// step is one retrieval action in an agent strategy. Exactly one of the
// source fields applies per kind: contentType for similar-content and style
// steps, category for knowledge steps. An empty query means "use the
// caller's query"; a fixed query overrides it.
type step struct {
	section     string
	kind        sectionKind
	contentType string
	category    string
	query       string
	limit       int
	fromAssets  bool // similar step reads brand_assets instead of content_history
}

// strategies maps agent names to their context-retrieval plans. The plans
// mirror what each agent actually needs: writers want prior output and
// style references, the planner wants briefs and product facts, the art
// director wants visual themes.
var strategies = map[string][]step{
	"Planner": {
		{section: "similar_briefs", kind: kindSimilar, contentType: "brief", limit: 2},
		{section: "knowledge", kind: kindKnowledge, category: "product", limit: 3},
	},
	"Blog Writer": {
		{section: "similar_blogs", kind: kindSimilar, contentType: "blog", limit: 2},
		{section: "style_examples", kind: kindStyle, contentType: "blog"},
		{section: "technical_docs", kind: kindKnowledge, category: "technical", limit: 3},
	},
	"X Dev Writer": {
		{section: "successful_posts", kind: kindStyle, contentType: "x_developer"},
		{section: "recent_posts", kind: kindSimilar, contentType: "x_developer", limit: 3},
	},
	"X Creator Writer": {
		{section: "successful_posts", kind: kindStyle, contentType: "x_creator"},
		{section: "recent_posts", kind: kindSimilar, contentType: "x_creator", limit: 3},
	},
	"LinkedIn Writer": {
		{section: "linkedin_examples", kind: kindStyle, contentType: "linkedin"},
		{section: "enterprise_info", kind: kindKnowledge, category: "enterprise", limit: 2},
	},
	"Art Director": {
		{section: "visual_themes", kind: kindSimilar, contentType: "image_prompt", limit: 3, fromAssets: true},
		{section: "brand_guidelines", kind: kindKnowledge, category: "brand", query: "brand visual guidelines", limit: 2},
	},
	"Editor": {
		{section: "style_guide", kind: kindKnowledge, category: "style", query: "style guide tone voice", limit: 3},
		{section: "past_edits", kind: kindSimilar, contentType: "edit", limit: 2},
	},
}

// genericStrategy serves agents without a dedicated plan. Unknown agents
// get minimal context, never an error.
var genericStrategy = []step{
	{section: "similar_content", kind: kindSimilar, limit: 2},
	{section: "knowledge", kind: kindKnowledge, limit: 2},
}

// contentTypes maps agent names to the content type their output is filed
// under in content_history.
var contentTypes = map[string]string{
	"Planner":          "brief",
	"Blog Writer":      "blog",
	"X Dev Writer":     "x_developer",
	"X Creator Writer": "x_creator",
	"LinkedIn Writer":  "linkedin",
	"Art Director":     "image_prompt",
	"Image Maker":      "image_asset",
	"Editor":           "edit",
}

// ContentTypeForAgent returns the content type an agent's output is stored
// as, falling back to "general" for unrecognized agents.
func ContentTypeForAgent(agent string) string {
	if ct, ok := contentTypes[agent]; ok {
		return ct
	}
	return "general"
}

func strategyFor(agent string) []step {
	if plan, ok := strategies[agent]; ok {
		return plan
	}
	return genericStrategy
}

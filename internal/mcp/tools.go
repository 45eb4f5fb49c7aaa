package mcp

import "github.com/mark3labs/mcp-go/mcp"

// retrieveContextTool defines the retrieve_context MCP tool.
var retrieveContextTool = mcp.NewTool("retrieve_context",
	mcp.WithDescription("Retrieve agent-specific context: similar past content, knowledge, and high-performing style examples, assembled per the agent's strategy."),
	mcp.WithString("agent",
		mcp.Required(),
		mcp.Description("Agent name, e.g. 'Blog Writer' or 'Planner'. Unknown agents get generic context."),
	),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("What the agent is about to work on"),
	),
)

// checkDuplicateTool defines the check_duplicate MCP tool.
var checkDuplicateTool = mcp.NewTool("check_duplicate",
	mcp.WithDescription("Check whether draft content is near-identical to something already in content history."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("The draft content to check"),
	),
)

// searchKnowledgeTool defines the search_knowledge MCP tool.
var searchKnowledgeTool = mcp.NewTool("search_knowledge",
	mcp.WithDescription("Search the knowledge base semantically, optionally within one category."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithString("category",
		mcp.Description("Restrict to a category, e.g. product, technical, brand, style, enterprise"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)

// getStyleExamplesTool defines the get_style_examples MCP tool.
var getStyleExamplesTool = mcp.NewTool("get_style_examples",
	mcp.WithDescription("Get high-performing content examples of one type to imitate."),
	mcp.WithString("content_type",
		mcp.Required(),
		mcp.Description("Content type, e.g. blog, linkedin, x_developer, x_creator, image_prompt"),
	),
)

// storeContentTool defines the store_content MCP tool.
var storeContentTool = mcp.NewTool("store_content",
	mcp.WithDescription("File an agent's finished output into content history so future retrieval can find it."),
	mcp.WithString("agent",
		mcp.Required(),
		mcp.Description("Agent name; determines the content type the output is filed under"),
	),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("The finished output text"),
	),
	mcp.WithString("source",
		mcp.Description("Optional source or campaign identifier"),
	),
)

// trackPerformanceTool defines the track_performance MCP tool.
var trackPerformanceTool = mcp.NewTool("track_performance",
	mcp.WithDescription("Record engagement metrics for published content. High scorers are promoted into style examples automatically."),
	mcp.WithString("content_id",
		mcp.Required(),
		mcp.Description("The content history id the metrics belong to"),
	),
	mcp.WithNumber("likes", mcp.Description("Like count")),
	mcp.WithNumber("comments", mcp.Description("Comment count")),
	mcp.WithNumber("shares", mcp.Description("Share count")),
	mcp.WithNumber("reach", mcp.Description("Audience reach")),
	mcp.WithNumber("conversions", mcp.Description("Conversion count")),
	mcp.WithString("sentiment",
		mcp.Description("Overall sentiment"),
		mcp.Enum("positive", "neutral", "negative"),
	),
)

// getTopContentTool defines the get_top_content MCP tool.
var getTopContentTool = mcp.NewTool("get_top_content",
	mcp.WithDescription("List the highest-scoring promoted content, optionally for one content type."),
	mcp.WithString("content_type",
		mcp.Description("Restrict to one content type"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)

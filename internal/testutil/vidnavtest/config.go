package vidnavtest

// Config defines the behavior of a fake VidNavigator endpoint
type Config struct {
	// Token is the bearer token the server requires. Empty accepts any request.
	Token string
	// Tools is the list returned by tools/list and served by tools/call
	Tools []Tool
	// BareToolList makes tools/list return the list as result itself
	// instead of result.tools
	BareToolList bool
}

// Tool is one remote tool of the fake endpoint
type Tool struct {
	Name        string
	Description string
	// Handler produces the result of tools/call. A nil Handler echoes the
	// arguments back.
	Handler func(arguments any) (any, error)
}

// DefaultConfig returns a configuration with the standard VidNavigator tools
func DefaultConfig() *Config {
	return &Config{
		Tools: []Tool{
			{Name: "search_videos", Description: "Searches videos across platforms with ranking"},
			{Name: "analyze_video", Description: "Summarizes a video or answers a question about it"},
			{Name: "get_video_transcript", Description: "Fetches the transcript of an online video"},
			{Name: "answer_followup_question", Description: "Answers a follow up question about a video"},
			{Name: "transcribe_video", Description: "Transcribes a video from a non-YouTube platform"},
		},
	}
}

// WithToken requires the given bearer token
func (c *Config) WithToken(token string) *Config {
	c.Token = token
	return c
}

// WithTool adds a tool
func (c *Config) WithTool(tool Tool) *Config {
	c.Tools = append(c.Tools, tool)
	return c
}

// WithoutTools removes every tool
func (c *Config) WithoutTools() *Config {
	c.Tools = nil
	return c
}

func (c *Config) tool(name string) (Tool, bool) {
	for _, t := range c.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

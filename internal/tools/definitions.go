package tools

import "github.com/vibhudawar/Travel-Planner-Agent/internal/core"

// Defs returns the tool definitions advertised to the model, in the order
// the assistant's system prompt introduces them.
func Defs() []core.ToolDefinition {
	return []core.ToolDefinition{
		SearchFlightsDefinition,
		SearchHotelsDefinition,
		SearchWeatherDefinition,
		SearchAttractionsDefinition,
		SearchYouTubeVlogsDefinition,
		GoogleSearchDefinition,
		CalculatorDefinition,
	}
}

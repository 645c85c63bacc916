package tools

import (
	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/rates"
	"github.com/roelfdiedericks/devkit/internal/tools/calc"
	"github.com/roelfdiedericks/devkit/internal/tools/convert"
	"github.com/roelfdiedericks/devkit/internal/tools/encode"
	"github.com/roelfdiedericks/devkit/internal/tools/file"
	"github.com/roelfdiedericks/devkit/internal/tools/generate"
	"github.com/roelfdiedericks/devkit/internal/tools/hash"
	"github.com/roelfdiedericks/devkit/internal/tools/jsontools"
	"github.com/roelfdiedericks/devkit/internal/tools/markup"
	"github.com/roelfdiedericks/devkit/internal/tools/schedule"
	"github.com/roelfdiedericks/devkit/internal/tools/text"
)

// ToolsConfig holds configuration for tools
type ToolsConfig struct {
	Disabled []string      // tool ids to leave out
	Rates    rates.Source  // exchange rates for the currency tool; nil uses the static table
	Theme    func() string // current UI theme, for markdown-terminal
}

// DefaultTools returns one instance of every built-in tool
func DefaultTools(cfg ToolsConfig) []Tool {
	return []Tool{
		// encoding
		encode.NewBase64Tool(),
		encode.NewURLTool(),
		encode.NewHTMLEntitiesTool(),
		encode.NewHexTool(),
		encode.NewJWTTool(),

		// json
		jsontools.NewFormatTool(),
		jsontools.NewDiffTool(),
		jsontools.NewQueryTool(),
		jsontools.NewYAMLTool(),
		jsontools.NewTOMLTool(),
		jsontools.NewCSVTool(),
		jsontools.NewTOONTool(),
		jsontools.NewXLSXTool(),

		// text
		text.NewCaseTool(),
		text.NewLinesTool(),
		text.NewStatsTool(),
		text.NewDiffTool(),
		text.NewRegexTool(),
		text.NewSlugTool(),
		text.NewLoremTool(),

		// crypto
		hash.NewHashTool(),
		hash.NewHMACTool(),
		hash.NewPasswordTool(),

		// generators
		generate.NewPasswordTool(),
		generate.NewUUIDTool(),
		generate.NewULIDTool(),
		generate.NewQRTool(),
		generate.NewVINTool(),

		// converters
		convert.NewUnitTool(),
		convert.NewBaseTool(),
		convert.NewTimestampTool(),
		convert.NewColorTool(),
		convert.NewRomanTool(),
		convert.NewByteSizeTool(),
		convert.NewCurrencyTool(cfg.Rates),

		// calculators
		calc.NewEMITool(),
		calc.NewBMITool(),
		calc.NewCalorieTool(),
		calc.NewPercentageTool(),
		calc.NewAgeTool(),

		// markup
		markup.NewHTMLTool(),
		markup.NewTerminalTool(cfg.Theme),
		markup.NewMarkdownTool(),

		// datetime
		schedule.NewCronTool(),

		// files
		file.NewInfoTool(),
		file.NewResizeTool(),
	}
}

// RegisterDefaults registers the default set of tools, skipping disabled ids
func RegisterDefaults(reg *Registry, cfg ToolsConfig) {
	disabled := make(map[string]bool, len(cfg.Disabled))
	for _, id := range cfg.Disabled {
		disabled[id] = true
	}

	for _, tool := range DefaultTools(cfg) {
		if disabled[tool.Name()] {
			L_debug("tools: skipped (disabled)", "name", tool.Name())
			delete(disabled, tool.Name())
			continue
		}
		reg.Register(tool)
	}

	for id := range disabled {
		L_warn("tools: disabled tool does not exist", "name", id)
	}
	L_debug("tools: registered defaults", "count", reg.Count())
}

package catalog

// Default returns the built-in catalog used when the manifest cannot be
// loaded. Its contents are fixed.
func Default() *Catalog {
	return &Catalog{sections: []Section{
		{
			Title: "Getting Started",
			Items: []Item{
				{Title: "Introduction", Path: "documents/introduction.md"},
				{Title: "Installation", Path: "documents/installation.md"},
				{Title: "Quick Start", Path: "documents/quick-start.md"},
			},
		},
		{
			Title: "Development Guides",
			Items: []Item{
				{Title: "Architecture", Path: "documents/guides/architecture.md"},
				{Title: "Shader System", Path: "documents/guides/shaders.md"},
				{Title: "Debugging", Path: "documents/guides/debugging.md"},
				{Title: "Troubleshooting", Path: "documents/guides/troubleshooting.md"},
			},
		},
		{
			Title: "API Reference",
			Items: []Item{
				{Title: "API Overview", Path: "documents/api/overview.md"},
			},
		},
		{
			Title: "Examples",
			Items: []Item{
				{Title: "Basic VR App", Path: "documents/examples/basic-vr.md"},
				{Title: "Custom Shaders", Path: "documents/examples/custom-shaders.md"},
			},
		},
		{
			Title: "Community",
			Items: []Item{
				{Title: "Community Hub", Path: "documents/community/index.md"},
				{Title: "Contributing", Path: "documents/community/contributing.md"},
				{Title: "Support", Path: "documents/community/support.md"},
			},
		},
		{
			Title: "Resources",
			Items: []Item{
				{Title: "All Resources", Path: "documents/resources/index.md"},
			},
		},
		{
			Title: "Downloads",
			Items: []Item{
				{Title: "Latest Release", Path: "documents/downloads/index.md"},
			},
		},
	}}
}

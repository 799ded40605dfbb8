package naming

// Template pairs a predefined pattern with a human description.
type Template struct {
	Pattern     string
	Description string
}

// Templates are the predefined naming patterns offered to users.
var Templates = []Template{
	{
		Pattern:     "{timestamp}-{filename}{ext}",
		Description: "Default: timestamp + original filename (e.g., 1700000000000-screenshot.png)",
	},
	{
		Pattern:     "{datetime}-{filename}{ext}",
		Description: "DateTime + filename (e.g., 2025-11-20_14-30-45-screenshot.png)",
	},
	{
		Pattern:     "{date}/{filename}-{hash:8}{ext}",
		Description: "Date folder + filename + hash (e.g., 2025-11-20/screenshot-a1b2c3d4.png)",
	},
	{
		Pattern:     "{profile}/{date}/{counter}-{filename}{ext}",
		Description: "Profile/date folders + counter (e.g., prod-blog/2025-11-20/0001-screenshot.png)",
	},
	{
		Pattern:     "{hash:12}{ext}",
		Description: "Content-based hash only (e.g., a1b2c3d4e5f6.png)",
	},
	{
		Pattern:     "{date}-{time}-{random:4}{ext}",
		Description: "Date-time + random suffix (e.g., 2025-11-20-14-30-45-x7k9.png)",
	},
}

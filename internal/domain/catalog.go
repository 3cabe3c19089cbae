package domain

// BuiltinCourses is shown when the backend catalog is empty or unreachable.
func BuiltinCourses() []Course {
	return []Course{
		{
			ID:           "intro-react",
			Title:        "Introduction to React",
			Description:  "Learn the fundamentals of React including components, state, props, and hooks.",
			Category:     "coding",
			Difficulty:   "Beginner",
			Duration:     "4 weeks",
			ModulesCount: 8,
			PDFURL:       "https://example.com/react-intro.pdf",
		},
		{
			ID:           "advanced-js",
			Title:        "Advanced JavaScript",
			Description:  "Master advanced JavaScript concepts like closures, promises, async/await, and more.",
			Category:     "coding",
			Difficulty:   "Advanced",
			Duration:     "6 weeks",
			ModulesCount: 12,
			PDFURL:       "https://example.com/advanced-js.pdf",
		},
		{
			ID:           "python-data-science",
			Title:        "Python for Data Science",
			Description:  "Explore Python libraries like NumPy, Pandas, and Matplotlib for data analysis.",
			Category:     "data",
			Difficulty:   "Intermediate",
			Duration:     "5 weeks",
			ModulesCount: 10,
			PDFURL:       "https://example.com/python-data-science.pdf",
		},
		{
			ID:           "ml-basics",
			Title:        "Machine Learning Basics",
			Description:  "Introduction to machine learning algorithms and their practical applications.",
			Category:     "data",
			Difficulty:   "Intermediate",
			Duration:     "8 weeks",
			ModulesCount: 15,
			PDFURL:       "https://example.com/ml-basics.pdf",
		},
		{
			ID:           "uiux-design",
			Title:        "UI/UX Design Principles",
			Description:  "Learn the core principles of user interface and user experience design.",
			Category:     "design",
			Difficulty:   "Beginner",
			Duration:     "3 weeks",
			ModulesCount: 6,
			PDFURL:       "https://example.com/uiux-design.pdf",
		},
	}
}

// CourseCategories lists the filter values accepted by the courses page.
var CourseCategories = []string{"all", "coding", "data", "design"}

// FilterCourses keeps the courses in category; "all" and "" keep everything.
func FilterCourses(courses []Course, category string) []Course {
	if category == "" || category == "all" {
		return courses
	}
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

type AITool struct {
	Name        string
	Category    string
	Description string
	Features    []string
}

func AITools() []AITool {
	return []AITool{
		{Name: "ChatGPT", Category: "Text Generation", Description: "Advanced conversational AI that can help with writing, coding, analysis, and creative tasks.", Features: []string{"Natural conversations", "Code generation", "Content writing", "Problem solving"}},
		{Name: "DALL-E", Category: "Image Generation", Description: "Create realistic images from text descriptions.", Features: []string{"Text-to-image", "Image editing", "Style variations", "High resolution"}},
		{Name: "GitHub Copilot", Category: "Code Assistant", Description: "AI-powered code completion with intelligent suggestions.", Features: []string{"Code completion", "Multi-language support", "Context-aware", "Documentation help"}},
		{Name: "Midjourney", Category: "Image Generation", Description: "Artistic image generation focused on aesthetic output.", Features: []string{"Artistic style", "High quality", "Creative control", "Community features"}},
		{Name: "Jasper AI", Category: "Content Writing", Description: "Writing assistant for marketing copy, blog posts and social media.", Features: []string{"Marketing copy", "SEO optimization", "Multiple templates", "Tone adjustment"}},
		{Name: "ElevenLabs", Category: "Voice & Audio", Description: "Realistic voiceovers and voice cloning.", Features: []string{"Text-to-speech", "Voice cloning", "Multiple languages", "Natural prosody"}},
	}
}

package apitest

import "github.com/sandeepkv93/dexnote-client/internal/domain"

func SeedCourses() []domain.Course {
	return []domain.Course{
		{
			ID:          "react-basics",
			Title:       "React Basics",
			Description: "Learn the fundamentals of React including components, props, state, and hooks.",
			Category:    "coding",
			Difficulty:  "Beginner",
			Duration:    "4 weeks",
			Instructor:  "Sarah Johnson",
			Rating:      4.8,
			Enrolled:    1250,
			Tags:        []string{"React", "JavaScript", "Frontend"},
		},
		{
			ID:            "python-advanced",
			Title:         "Advanced Python",
			Description:   "Master decorators, generators, async programming, and design patterns.",
			Category:      "coding",
			Difficulty:    "Advanced",
			Duration:      "6 weeks",
			Instructor:    "Dr. Michael Chen",
			Rating:        4.9,
			Enrolled:      850,
			RequiresTerms: true,
			Tags:          []string{"Python", "Backend"},
		},
		{
			ID:          "web-design",
			Title:       "Web Design Fundamentals",
			Description: "Typography, color theory, layout, and responsive design.",
			Category:    "design",
			Difficulty:  "Beginner",
			Duration:    "5 weeks",
			Instructor:  "Emily Rodriguez",
			Rating:      4.7,
			Enrolled:    1100,
		},
	}
}

func SeedModules() map[string][]domain.CourseModule {
	return map[string][]domain.CourseModule{
		"react-basics": {
			{ID: "m1", CourseID: "react-basics", Title: "Introduction to React", Duration: "45 min", Order: 1},
			{ID: "m2", CourseID: "react-basics", Title: "Components and Props", Duration: "60 min", Order: 2},
			{ID: "m3", CourseID: "react-basics", Title: "State and Lifecycle", Duration: "75 min", Order: 3},
			{ID: "m4", CourseID: "react-basics", Title: "React Hooks", Duration: "90 min", Order: 4},
		},
		"python-advanced": {
			{ID: "m1", CourseID: "python-advanced", Title: "Decorators and Metaclasses", Duration: "90 min", Order: 1},
			{ID: "m2", CourseID: "python-advanced", Title: "Generators and Iterators", Duration: "75 min", Order: 2},
		},
	}
}

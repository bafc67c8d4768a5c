package catalog

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	postings := []JobPosting{
		{
			Title:       "Cloud Engineer",
			Company:     "Amazon Web Services",
			Location:    "Bangalore, India",
			Salary:      "₹12–18 LPA",
			Description: "AWS, Lambda, S3, EC2, DevOps, cloud infrastructure",
		},
		{
			Title:       "Data Analyst",
			Company:     "Accenture",
			Location:    "Chennai, India",
			Salary:      "₹6–10 LPA",
			Description: "SQL, Python, Excel, Power BI, data analysis",
		},
		{
			Title:       "Python Developer",
			Company:     "Infosys",
			Location:    "Remote",
			Salary:      "₹5–9 LPA",
			Description: "Python, Django, Flask, APIs, backend systems",
		},
		{
			Title:       "Machine Learning Engineer",
			Company:     "TCS",
			Location:    "Hyderabad",
			Salary:      "₹10–16 LPA",
			Description: "Machine learning, Python, NLP, AI systems",
		},
		{
			Title:       "Data Scientist",
			Company:     "IBM",
			Location:    "Bangalore",
			Salary:      "₹12–20 LPA",
			Description: "Statistics, Python, ML models, data science",
		},
		{
			Title:       "DevOps Engineer",
			Company:     "Wipro",
			Location:    "Pune",
			Salary:      "₹8–14 LPA",
			Description: "CI/CD, Docker, Kubernetes, AWS, DevOps",
		},
		{
			Title:       "Backend Developer",
			Company:     "Zoho",
			Location:    "Chennai",
			Salary:      "₹7–12 LPA",
			Description: "REST APIs, databases, Python, backend development",
		},
		{
			Title:       "AI Engineer",
			Company:     "Startups",
			Location:    "Remote",
			Salary:      "₹15–25 LPA",
			Description: "AI pipelines, embeddings, NLP, LLMs",
		},
		{
			Title:       "Software Engineer",
			Company:     "Google",
			Location:    "Hyderabad",
			Salary:      "₹20–30 LPA",
			Description: "Software engineering, problem solving, system design",
		},
		{
			Title:       "Business Analyst",
			Company:     "Deloitte",
			Location:    "Mumbai",
			Salary:      "₹6–11 LPA",
			Description: "Business analysis, analytics, stakeholder management",
		},
	}

	careerPaths := map[string]string{
		"Cloud Engineer":            "AWS Architect → DevOps Lead → Cloud Manager",
		"Data Analyst":              "Senior Analyst → Data Scientist → Analytics Manager",
		"Python Developer":          "Backend Engineer → Full Stack Developer → Tech Lead",
		"Machine Learning Engineer": "ML Engineer → AI Architect → AI Lead",
		"Data Scientist":            "Senior DS → AI Scientist → Head of Data",
	}

	return &Catalog{Postings: postings, CareerPaths: careerPaths}
}

package content

import "github.com/goliatone/go-equitysite/pkg/nav"

// Default returns the built-in site copy.
func Default() Site {
	return Site{
		Brand: Brand{
			Name:    "AJHealth.",
			Accent:  "Research",
			Tagline: "Advancing Health Equity Worldwide",
		},
		Nav:      defaultNav(),
		CTALabel: "Get Started",
		Hero: Hero{
			ID:       "home",
			Headline: "Bridging Healthcare Gaps for Equitable Outcomes",
			Copy: "Expert consultancy services to help organizations implement sustainable " +
				"health equity strategies and create inclusive healthcare systems.",
			Buttons: []Link{
				{Label: "Request Consultation", Href: "#contact", Variant: "primary"},
				{Label: "Our Services", Href: "#services", Variant: "secondary"},
			},
			Stats: []Stat{
				{Value: "50+", Label: "Organizations Served"},
				{Value: "100+", Label: "Health Equity Projects"},
				{Value: "15+", Label: "Countries Reached"},
			},
		},
		Services: ServicesSection{
			ID:       "services",
			Title:    "Our Consultancy Services",
			Subtitle: "Specialized solutions to advance health equity in your organization",
			Cards: []ServiceCard{
				serviceCard("Health Equity Assessment", "Comprehensive analysis of your organization's health equity gaps and opportunities.", "📊"),
				serviceCard("Policy Development", "Creating inclusive health policies that address systemic barriers and disparities.", "📋"),
				serviceCard("Training & Capacity Building", "Equipping your team with tools and knowledge to advance health equity.", "👥"),
				serviceCard("Program Evaluation", "Measuring impact and effectiveness of your health equity initiatives.", "⭐"),
				serviceCard("Research & Analytics", "Data-driven insights to inform your health equity strategy.", "🔬"),
				serviceCard("Community Engagement", "Building partnerships with communities for sustainable solutions.", "🤝"),
			},
			CTA: Link{Label: "View All Services", Href: "#expertise"},
		},
		Sections: []SectionGroup{
			{
				ID:    "about",
				Title: "About Us",
				Items: []Section{
					{ID: "about-story", Title: "Our Story", Body: "We began as a small team of public health researchers who saw the same gaps in care repeat across very different communities."},
					{ID: "about-vision", Title: "Vision", Body: "A world where every person can reach the care they need, regardless of where they live or who they are."},
					{ID: "about-mission", Title: "Mission", Body: "To turn evidence into practical, lasting change for the organizations that deliver health services."},
					{ID: "about-values", Title: "Core Values", Body: "Equity, rigor, partnership and accountability guide every engagement."},
					{ID: "about-team", Title: "Core Team", Body: "Epidemiologists, economists, data scientists and program managers working side by side."},
				},
			},
			{
				ID:    "expertise",
				Title: "What We Do",
				Items: []Section{
					{ID: "services-research", Title: "Research", Body: "Mixed-methods studies designed with the communities they describe."},
					{ID: "services-analytics", Title: "Data Analytics", Body: "Dashboards and models that surface disparities hidden in routine data."},
					{ID: "services-project", Title: "Project Management", Body: "Delivery support from inception to close-out for complex health programs."},
					{ID: "services-economics", Title: "Health Economics Evaluation", Body: "Cost-effectiveness and budget impact analyses that inform funding decisions."},
					{ID: "services-logistics", Title: "Logistics & Supply Chain", Body: "Last-mile planning so supplies reach the facilities that need them."},
				},
			},
			{
				ID:    "resources",
				Title: "Resources",
				Items: []Section{
					{ID: "resources-reports", Title: "Annual Reports", Body: "Yearly summaries of our projects, partners and outcomes."},
					{ID: "resources-briefs", Title: "Technical Briefs", Body: "Short, practical notes on methods and lessons learned."},
				},
			},
			{
				ID:    "publications",
				Title: "Publications",
				Items: []Section{
					{ID: "publications-papers", Title: "Research Papers", Body: "Peer-reviewed work from our team and collaborators."},
					{ID: "publications-conferences", Title: "Conferences", Body: "Talks and posters presented at regional and international meetings."},
				},
			},
			{
				ID:    "partners",
				Title: "Donors / Partners",
				Intro: "We work alongside ministries of health, foundations, universities and community organizations.",
			},
		},
		Contact: ContactSection{
			ID:    nav.ContactAnchor,
			Title: "Start Your Health Equity Journey",
			Intro: "Contact us for a free 30-minute consultation to discuss your " +
				"organization's needs and challenges.",
			SubmitLabel:  "Request Free Consultation",
			SuccessTitle: "Thank you for your inquiry!",
			SuccessBody:  "We've received your consultation request and will contact you within 24 hours.",
			Info: []InfoItem{
				{Icon: "📧", Title: "Email Us", Text: "contact@healthequityconsult.com"},
				{Icon: "📞", Title: "Call Us", Text: "+1 (555) 123-4567"},
				{Icon: "⏰", Title: "Business Hours", Text: "Mon-Fri 9am-6pm EST"},
			},
		},
		Footer: Footer{
			Name:  "HealthEquityConsult",
			Blurb: "Advancing health equity through evidence-based consultancy, research, and strategic partnerships.",
			QuickLinks: []Link{
				{Label: "Home", Href: "/"},
				{Label: "Services", Href: "#services"},
				{Label: "Contact", Href: "#contact"},
				{Label: "About Us", Href: "#about"},
			},
			ContactLines: []string{
				"Email: AJHealth.Research@gmail.com",
				"Phone: +233 244 297950; +233 244 988 266",
				"City : Accra, Dansoma",
				"Location: #23 Asafoastse Baakonko street, Camara",
			},
			CopyrightHolder: "Health Equity Consultancy Services",
		},
	}
}

func serviceCard(title, description, icon string) ServiceCard {
	return ServiceCard{
		Title:       title,
		Description: description,
		Icon:        icon,
		Link:        Link{Label: "Learn More →", Href: "#contact"},
	}
}

func defaultNav() []nav.Entry {
	leaf := func(id, label, anchor string) nav.Entry {
		return nav.Entry{ID: id, Label: label, Anchor: anchor}
	}
	return []nav.Entry{
		leaf("home", "Home", "#home"),
		{
			ID:    "about",
			Label: "About Us",
			Children: []nav.Entry{
				leaf("story", "Our Story", "#about-story"),
				leaf("vision", "Vision", "#about-vision"),
				leaf("mission", "Mission", "#about-mission"),
				leaf("values", "Core Values", "#about-values"),
				leaf("team", "Core Team", "#about-team"),
			},
		},
		{
			ID:    "services",
			Label: "What We Do",
			Children: []nav.Entry{
				leaf("research", "Research", "#services-research"),
				leaf("analytics", "Data Analytics", "#services-analytics"),
				leaf("project", "Project Management", "#services-project"),
				leaf("economics", "Health Economics Evaluation", "#services-economics"),
				leaf("logistics", "Logistics & Supply Chain", "#services-logistics"),
			},
		},
		{
			ID:    "resources",
			Label: "Resources",
			Children: []nav.Entry{
				leaf("reports", "Annual Reports", "#resources-reports"),
				leaf("briefs", "Technical Briefs", "#resources-briefs"),
			},
		},
		{
			ID:    "publications",
			Label: "Publications",
			Children: []nav.Entry{
				leaf("papers", "Research Papers", "#publications-papers"),
				leaf("conferences", "Conferences", "#publications-conferences"),
			},
		},
		leaf("partners", "Donors / Partners", "#partners"),
		leaf("contact", "Contact", "#contact"),
	}
}

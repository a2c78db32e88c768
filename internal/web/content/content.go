// Package content holds the static copy of the marketing home page.
package content

import "github.com/foxzi/hackflow/internal/template"

// Stat is a headline number in the hero
type Stat struct {
	Label string
	Value string
}

// Hero is the top banner
type Hero struct {
	Badge    string
	Title    string
	Subtitle string
	Primary  string
	Second   string
	Stats    []Stat
}

// Agent describes one AI agent role
type Agent struct {
	Name        string
	Role        string
	Description string
	Features    []string
}

// Feature is a card in a grid section
type Feature struct {
	Title       string
	Description string
}

// Milestone is a community size target
type Milestone struct {
	Members string
	Phase   string
}

// TechItem is one entry in a tech stack category
type TechItem struct {
	Name        string
	Description string
}

// TechCategory groups tech stack entries
type TechCategory struct {
	Title string
	Items []TechItem
}

// Home is everything rendered on the landing page
type Home struct {
	Hero          Hero
	Agents        []Agent
	Workflows     []Feature
	Growth        []Feature
	Milestones    []Milestone
	TechStack     []TechCategory
	Architecture  []Feature
	FooterTagline string
}

// Default returns the landing page copy
func Default() Home {
	return Home{
		Hero: Hero{
			Badge:    "AI-Powered Event Orchestration",
			Title:    "HACKATHON TWIN",
			Subtitle: "AI agents that run your global hackathon from start to finish while growing your community to 100,000+ members.",
			Primary:  "See Demo",
			Second:   "Watch Video",
			Stats: []Stat{
				{Label: "65+ Countries", Value: "Global Reach"},
				{Label: "100,000+", Value: "Target Members"},
				{Label: "4 AI Agents", Value: "Full Automation"},
				{Label: "End-to-End", Value: "Zero Manual Work"},
			},
		},
		Agents: []Agent{
			{
				Name:        "Outreach Twin",
				Role:        "Global Recruitment & Alumni Engagement",
				Description: "Identifies and recruits participants across 65+ countries, taps alumni networks, and promotes the mission to encourage returning participants.",
				Features:    []string{"Multi-country outreach", "Alumni network activation", "LinkedIn & email automation", "Referral loop management"},
			},
			{
				Name:        "Jury & Speaker Twin",
				Role:        "Expert Network Orchestration",
				Description: "Sources, vets, and onboards high-profile speakers and jury members. Manages communications and voting platforms seamlessly.",
				Features:    []string{"Speaker identification", "Jury management", "Voting coordination", "Expert communications"},
			},
			{
				Name:        "Agenda Twin",
				Role:        "Content & Challenge Creation",
				Description: "Creates hackathon agendas, slide decks, AI challenges, and social media content that engages both participants and the wider AI community.",
				Features:    []string{"Challenge design", "Agenda creation", "Content generation", "Social media automation"},
			},
			{
				Name:        "Community Growth Twin",
				Role:        "Member Acquisition & Retention",
				Description: "Converts participants into long-term community members through follow-up touchpoints, referral programs, and engagement loops.",
				Features:    []string{"Member onboarding", "Retention automation", "Growth analytics", "Engagement optimization"},
			},
		},
		Workflows: []Feature{
			{Title: "Global Outreach", Description: "Automated participant recruitment across 65+ countries using LinkedIn, email lists, and WhatsApp networks."},
			{Title: "Team & Volunteer Management", Description: "Coordinate organizing teams, assign tasks, and manage volunteer ambassadors for local hub operations."},
			{Title: "Event Orchestration", Description: "Schedule video calls, moderate discussions, and provide real-time participant support across Discord and Slack."},
			{Title: "Content Generation", Description: "Create agendas, challenges, slide decks, and social media content that engages the AI community."},
			{Title: "Fundraising & Partnerships", Description: "Identify prospects, approach sponsors, and maintain partner relationships for sustainable growth."},
			{Title: "Community Growth Engine", Description: "Convert participants into long-term members through referral loops and engagement touchpoints."},
		},
		Growth: []Feature{
			{Title: "Referral Amplification", Description: "Each participant brings 2-3 peers through automated referral loops"},
			{Title: "Alumni Network Activation", Description: "Previous participants become community ambassadors and local hub leaders"},
			{Title: "Multi-Touch Engagement", Description: "Continuous value delivery through challenges, meetups, and learning sessions"},
			{Title: "Global Hub Expansion", Description: "Local community hubs in major cities worldwide for in-person connections"},
			{Title: "Venture Launchpad", Description: "Turn hackathon projects into real ventures with continued community support"},
		},
		Milestones: []Milestone{
			{Members: "5,000", Phase: "Foundation Phase"},
			{Members: "25,000", Phase: "Acceleration Phase"},
			{Members: "50,000", Phase: "Scale Phase"},
			{Members: "100,000+", Phase: "Global Impact"},
		},
		TechStack: []TechCategory{
			{Title: "AI Frameworks", Items: []TechItem{
				{Name: "OpenAI Assistants API", Description: "Advanced conversational AI capabilities"},
				{Name: "LangChain", Description: "AI agent orchestration and workflows"},
				{Name: "CrewAI", Description: "Multi-agent coordination system"},
				{Name: "Semantic Kernel", Description: "AI plugin architecture"},
			}},
			{Title: "Integrations", Items: []TechItem{
				{Name: "Google Workspace APIs", Description: "Calendar, Docs, and Sheets automation"},
				{Name: "Slack/Discord SDKs", Description: "Real-time messaging and moderation"},
				{Name: "LinkedIn API", Description: "Professional network outreach"},
				{Name: "Airtable API", Description: "Structured data management"},
			}},
			{Title: "Data & Analytics", Items: []TechItem{
				{Name: "PostgreSQL", Description: "Reliable data persistence"},
				{Name: "Redis", Description: "High-performance caching"},
				{Name: "Apache Kafka", Description: "Real-time event streaming"},
				{Name: "Grafana", Description: "Metrics and visualization"},
			}},
			{Title: "Infrastructure", Items: []TechItem{
				{Name: "Kubernetes", Description: "Container orchestration"},
				{Name: "Docker", Description: "Containerized deployment"},
				{Name: "AWS/Azure", Description: "Cloud infrastructure"},
				{Name: "Terraform", Description: "Infrastructure as code"},
			}},
			{Title: "Security & Compliance", Items: []TechItem{
				{Name: "OAuth 2.0", Description: "Secure authentication"},
				{Name: "GDPR Compliance", Description: "Data protection standards"},
				{Name: "End-to-End Encryption", Description: "Data security in transit"},
				{Name: "Audit Logging", Description: "Complete activity tracking"},
			}},
			{Title: "Development", Items: []TechItem{
				{Name: "TypeScript", Description: "Type-safe development"},
				{Name: "Next.js", Description: "Modern web framework"},
				{Name: "Python", Description: "AI/ML backend services"},
				{Name: "GitHub Actions", Description: "CI/CD automation"},
			}},
		},
		Architecture: []Feature{
			{Title: "Modular Design", Description: "Each AI agent operates as an independent microservice with clear API contracts."},
			{Title: "Shared Data Layer", Description: "Single source of truth for tasks and participant data with real-time sync."},
			{Title: "Rate Limiting", Description: "Smart API quota management with local caching and batch processing."},
			{Title: "Error Resilience", Description: "Robust error handling with fallback mechanisms and human-in-the-loop options."},
		},
		FooterTagline: "Every hackathon becomes a powerful community growth engine, turning participants into long-term members and advocates.",
	}
}

const invitationSubject = "🚀 You're Invited: HackNation Hackathon - Build the Future!"

const invitationBody = `Dear {{name}},

We're excited to invite you to participate in our upcoming hackathon event!

Event Details:
- Date: [Date]
- Location: [Location/Virtual]
- Duration: [Duration]

This is an incredible opportunity to:
- Work with cutting-edge AI technologies
- Network with fellow innovators
- Compete for amazing prizes
- Build solutions that matter

To register, please visit: [Registration Link]

We can't wait to see what you'll create!

Best regards,
The HackNation Team

P.S. Feel free to bring friends - teamwork makes the dream work!`

// Invitation returns the template the mailing page starts with
func Invitation() *template.Template {
	return &template.Template{Subject: invitationSubject, Body: invitationBody}
}

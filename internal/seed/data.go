package seed

// CategoryPlan 一個分類與其預設活動標題
type CategoryPlan struct {
	Name   string
	Events []string
}

// DefaultPlan 學年活動計畫，順序即建立順序
var DefaultPlan = []CategoryPlan{
	{Name: "Annual Plan", Events: []string{
		"Annual College Event Plan (Full Year)",
	}},
	{Name: "Academic & Technical Events", Events: []string{
		"Orientation Program (First Year Students)",
		"Expert Lecture Series (Monthly)",
		"Technical Workshops (Embedded Systems, VLSI, AI, Web Dev)",
		"Coding Competition / Hackathon",
		"Project Exhibition",
		"Research Paper Presentation",
		"Industrial Visit",
		"Internship & Training Awareness Session",
	}},
	{Name: "Skill Development & Career Events", Events: []string{
		"Resume Building Workshop",
		"Aptitude & Placement Training",
		"Mock Interviews & GD Sessions",
		"Higher Studies & GATE Awareness Program",
		"Entrepreneurship & Startup Talk",
		"Alumni Interaction Session",
	}},
	{Name: "Cultural Events", Events: []string{
		"Fresher’s Party",
		"Traditional Day",
		"Cultural Fest (Dance, Music, Drama)",
		"Annual Day",
		"Talent Hunt",
		"Fashion Show",
		"Farewell Party",
	}},
	{Name: "Sports & Fitness Events", Events: []string{
		"Sports Day",
		"Cricket / Football / Volleyball Tournament",
		"Indoor Games Competition (Chess, Carrom)",
		"Yoga & Meditation Session",
		"Fitness Challenge Week",
	}},
	{Name: "Social & Awareness Activities", Events: []string{
		"Independence Day Celebration",
		"Republic Day Celebration",
		"Teachers’ Day Celebration",
		"Women’s Day Program",
		"Environmental Awareness Drive",
		"Tree Plantation Drive",
		"Blood Donation Camp",
		"Swachh Bharat Abhiyan",
		"NSS / Social Service Camp",
	}},
	{Name: "Club & Departmental Activities", Events: []string{
		"Club Inauguration Ceremony",
		"Weekly Club Activities",
		"Department Day Celebration",
		"Technical Quiz",
		"Poster Presentation Competition",
		"Debate & Elocution Competition",
	}},
	{Name: "End-of-Year Events", Events: []string{
		"Annual Prize Distribution",
		"Feedback & Review Meeting",
		"Student Achievement Recognition",
		"Planning Meeting for Next Academic Year",
	}},
}

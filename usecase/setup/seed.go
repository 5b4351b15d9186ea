package setup

import "github.com/fastygo/clubportal/domain"

// The content a fresh installation starts with. Administrators edit or archive it afterwards.

var defaultHomepage = []domain.HomepageSection{
	{Section: "hero_title", Content: "Welcome to BUTEX Debating Club"},
	{Section: "hero_subtitle", Content: "Empowering voices, shaping leaders"},
	{Section: "about_university", Content: "Bangladesh University of Textiles (BUTEX) is a premier institution dedicated to textile education and research in Bangladesh."},
	{Section: "about_club", Content: "BUTEX Debating Club is a platform for students to develop critical thinking, public speaking, and leadership skills through debate."},
	{Section: "mission", Content: "To foster intellectual discourse and develop confident, articulate leaders."},
	{Section: "vision", Content: "To be the leading debating platform in Bangladesh, nurturing world-class debaters."},
}

var defaultLeadership = []domain.LeadershipMember{
	{Name: "President Name", Position: "President", OrderNumber: 1},
	{Name: "General Secretary Name", Position: "General Secretary", OrderNumber: 2},
	{Name: "Chief of English Wing Name", Position: "Chief of English Wing", OrderNumber: 3},
}

var defaultCoach = domain.CoachInfo{
	Name: "Abrar Fahad Zaman",
	Bio:  "Expert debate coach with extensive experience in training national and international champions.",
	Achievements: "1. Coached the Pre-worlds Champions of 2019 - Scholastica\n" +
		"2. Grand Final Chair and Cap of BDC Digital Discourse 2020 - Bangladesh's first real time international debate tournament in English\n" +
		"3. Worked as the Content Curator of Bitorko Matter Training after the former chair of BDC Fardeen Ameen passed the torch\n" +
		"4. World Bank IFC TOT (online) acquired under Master Trainer Quazi M. Ahmed\n" +
		"5. Trained under Don Sumdany, Coach Kamrul and Mashahed Hassan Simanta in their training programs\n" +
		"6. Completed NLD which was a pioneering coaching program by Sajid Khandaker and Adi Mehedi Adi\n" +
		"7. Coach of ULAB, Trainer of Scholastica Debate Team, Mentor at BRAC.",
}

type seedCourse struct {
	course  domain.Course
	modules []domain.Module
}

var defaultCourses = []seedCourse{
	{
		course: domain.Course{
			Title:       "Beginner Course",
			Description: "This course is designed to introduce participants to the fundamentals of parliamentary debate formats, focusing on the Asian Parliamentary (AP) and British Parliamentary (BP) styles. It covers the roles of speakers, types of motions, and essential argumentation techniques.",
			Outline:     "Master the fundamentals of debate including AP & BP formats, speaker roles, motion analysis, framing, impact analysis, principled and utility arguments, and rebuttal techniques.",
			CourseType:  domain.CourseBeginner,
			OrderNumber: 1,
		},
		modules: []domain.Module{
			{Title: "Introduction to AP & BP Debate Formats", Duration: "45 min", VideoLink: "https://www.youtube.com/watch?v=example1", OrderNumber: 1},
			{Title: "Roles of Speakers", Duration: "60 min", VideoLink: "https://www.youtube.com/watch?v=example2", OrderNumber: 2},
			{Title: "Types of Motion and Their Demand", Duration: "50 min", VideoLink: "https://www.youtube.com/watch?v=example3", OrderNumber: 3},
			{Title: "Debates to Watch (AP)", Duration: "90 min", VideoLink: "https://www.youtube.com/playlist?list=PLJKCyUsDFuAX5wRnTm3ipGQ9WPvXYD6Cn", OrderNumber: 4},
			{Title: "Framing", Duration: "55 min", VideoLink: "https://www.youtube.com/watch?v=example5", OrderNumber: 5},
			{Title: "Impact Analysis & Comparative", Duration: "50 min", VideoLink: "https://www.youtube.com/watch?v=example6", OrderNumber: 6},
			{Title: "Principal Argument", Duration: "60 min", VideoLink: "https://www.youtube.com/watch?v=example7", OrderNumber: 7},
			{Title: "Utility Argument", Duration: "55 min", VideoLink: "https://www.youtube.com/watch?v=example8", OrderNumber: 8},
			{Title: "Rebuttal", Duration: "65 min", VideoLink: "https://www.youtube.com/watch?v=example9", OrderNumber: 9},
		},
	},
	{
		course: domain.Course{
			Title:       "Advanced Course",
			Description: "This course delves into more sophisticated debate strategies, focusing on advanced weighing techniques, effective use of evidence and illustrations, constructing extensions, and top-tier strategic thinking.",
			Outline:     "Develop advanced skills including sophisticated weighing, strategic illustration usage, lower house extensions, and top house strategies for competitive debate.",
			CourseType:  domain.CourseAdvanced,
			OrderNumber: 2,
		},
		modules: []domain.Module{
			{Title: "Weighing", Duration: "70 min", VideoLink: "https://www.youtube.com/watch?v=example10", OrderNumber: 1},
			{Title: "Illustration and How to Use Matter in Debate", Duration: "80 min", VideoLink: "https://www.youtube.com/watch?v=example11", OrderNumber: 2},
			{Title: "Extensions for Lower House and Connecting It", Duration: "75 min", VideoLink: "https://www.youtube.com/watch?v=example12", OrderNumber: 3},
			{Title: "Top House Strategies", Duration: "85 min", VideoLink: "https://www.youtube.com/watch?v=example13", OrderNumber: 4},
		},
	},
	{
		course: domain.Course{
			Title:       "Mentorship with AFZ",
			Description: "Exclusive mentorship program with Abrar Fahad Zaman, designed for advanced debaters seeking personalized coaching and elite-level training.",
			Outline:     "One-on-one mentorship sessions, personalized feedback, advanced strategy development, and preparation for international competitions.",
			CourseType:  domain.CourseMentorship,
			OrderNumber: 3,
		},
	},
}

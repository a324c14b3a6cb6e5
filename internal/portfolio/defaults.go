package portfolio

// Default returns the fallback dataset. Every field the renderer touches is
// populated here, so a completely empty cache and an unreachable remote
// store still produce a full page.
func Default() Document {
	return Document{
		Name:     "Velan M",
		Headline: "Aspiring Software Engineer — Full-stack web & backend",
		About:    "<p>Aspiring Software Engineer skilled in full-stack web development (React, Node), backend APIs and algorithms. Solved 400+ LeetCode and 900+ CodeChef problems. Practical experience building scalable web and mobile apps; seeking internships to contribute product-quality code.</p>",
		Profile: Profile{
			Image:   "img/velan.jpg",
			Caption: "Student at Chennai Institute Of Technology",
		},
		Resume: "img/Velan_M_Resume 11-10-2025.pdf",
		Contact: Contact{
			Email:    "velanm.cse2024@citchennai.net",
			Phone:    "+91 7904092680",
			LinkedIn: "https://linkedin.com/in/velan-m",
			GitHub:   "https://github.com/velan1207",
		},
		Projects: []Project{
			{
				Title: "PedalPulse — Urban Bike Rental Feedback App | Firebase, React, Node | Sep 2025",
				Desc:  "<p>Developed a web-based platform to collect and analyze feedback from urban bike rental users, allowing authorities to make data-driven decisions.</p><ul><li>Integrated Google Sign-In for secure user authentication and stored users’ ratings and comments for historical tracking.</li><li>Built an admin dashboard with charts, graphs, and CSV export to visualize trends in satisfaction, safety, and infrastructure usage.</li><li>Implemented Firebase backend for scalable storage, real-time updates, and secure data handling.</li><li>Planned future enhancements including IoT device telemetry, sentiment analysis, and predictive insights for operational improvements.</li></ul>",
			},
			{
				Title: "Weather Prediction Website | Node.js, OpenWeatherMap | Mar 2025",
				Desc:  "<p>Developed a responsive weather forecast website using a Node.js backend and the OpenWeatherMap API for live updates.</p><ul><li>Designed a mobile-first UI with intuitive layouts, allowing users to check weather conditions for multiple cities.</li><li>Implemented modular and scalable code architecture to facilitate feature updates like 7-day forecasts or hourly weather predictions.</li></ul>",
			},
			{
				Title: "To-Do List App | Flutter | Jun 2025",
				Desc:  "<p>Built a cross-platform to-do app using Flutter and Dart supporting task creation, categorization, and reminders.</p><ul><li>Implemented persistent local storage to save tasks offline and synchronized updates when internet is available.</li><li>Designed responsive UI with smooth navigation and offline support to enhance user experience.</li></ul>",
			},
			{
				Title: "Calculator App | Flutter | Jun 2025",
				Desc:  "<p>Developed a modern calculator app implementing BODMAS rules for accurate mathematical computations.</p><ul><li>Added input validation and smooth UI animations for better usability on mobile devices.</li><li>Built using Flutter/Dart to support both Android and iOS platforms.</li></ul>",
			},
			{
				Title: "Automatic Image Gallery | HTML, CSS | Feb 2025",
				Desc:  "<p>Designed a responsive web image gallery with automatic transitions for smooth slideshow display.</p><ul><li>Implemented adaptive layout for different screen sizes to ensure usability across devices.</li></ul>",
			},
		},
		Skills: SkillSet{
			Technical: []Skill{
				{Name: "C/C++"},
				{Name: "Python"},
				{Name: "Java"},
				{Name: "JavaScript"},
				{Name: "React.js"},
				{Name: "Node.js"},
				{Name: "Express.js"},
				{Name: "HTML"},
				{Name: "CSS"},
				{Name: "MySQL"},
				{Name: "Firebase"},
				{Name: "Git"},
				{Name: "Data Structures & Algorithms"},
			},
			Soft: []Skill{
				{Name: "Problem Solving"},
				{Name: "Teamwork"},
				{Name: "Communication"},
			},
		},
		Achievements: []string{
			"AWS Cloud Practitioner certification",
			"LinkedIn Learning: Web Development courses",
			"HackerRank and CodeChef problem solving (400+ LeetCode, 900+ CodeChef)",
			"Google Cloud / Hack2Skill challenges",
		},
		Internships: []Internship{
			{
				Company: "AICTE–EduSkills Virtual Internship",
				Role:    "Android App Development Intern (Jun 2025)",
				Text:    "<ul><li>Built Flutter apps (calculator, to-do); implemented state management.</li><li>Used Git/GitHub for version control and deployments.</li></ul>",
			},
		},
		Testimonials: []Testimonial{},
		Timeline:     []TimelineEntry{},
		Blog:         []BlogPost{},
	}
}

// internal/service/scoring/lexicon.go

package scoring

// industryTerms maps an industry to vocabulary that signals relevance to it
var industryTerms = map[string][]string{
	"technology":    {"software", "ai", "cloud", "data", "engineering", "developer", "platform", "api", "automation", "startup", "product", "tech"},
	"finance":       {"finance", "investment", "portfolio", "market", "revenue", "capital", "banking", "fintech", "risk", "returns", "budget"},
	"healthcare":    {"health", "patient", "clinical", "care", "medical", "hospital", "wellness", "treatment", "doctor", "nurse"},
	"marketing":     {"marketing", "brand", "campaign", "audience", "content", "engagement", "seo", "conversion", "funnel", "growth"},
	"education":     {"learning", "students", "teachers", "education", "course", "curriculum", "school", "training", "skills"},
	"retail":        {"customers", "shopping", "store", "ecommerce", "sales", "inventory", "retail", "checkout", "products"},
	"manufacturing": {"manufacturing", "supply chain", "factory", "production", "operations", "quality", "logistics", "lean"},
	"legal":         {"legal", "compliance", "law", "regulation", "contract", "counsel", "litigation", "policy"},
	"real estate":   {"property", "real estate", "housing", "mortgage", "rent", "listing", "commercial", "tenants"},
	"media":         {"media", "story", "audience", "publishing", "video", "podcast", "creator", "newsroom"},
	"consulting":    {"clients", "strategy", "consulting", "advisory", "transformation", "framework", "engagement"},
	"energy":        {"energy", "renewable", "solar", "grid", "climate", "sustainability", "emissions", "power"},
}

// experienceProfile is what content for one experience level looks like
type experienceProfile struct {
	terms       []string
	maxGrade    float64
	ease        [2]float64
	maxLongWord float64
}

var experienceProfiles = map[string]experienceProfile{
	"entry": {
		terms:       []string{"beginner", "basics", "getting started", "learn", "first", "simple", "introduction", "tips", "guide", "step"},
		maxGrade:    9,
		ease:        [2]float64{60, 80},
		maxLongWord: 0.15,
	},
	"mid": {
		terms:       []string{"practical", "improve", "framework", "process", "team", "best practices", "lessons", "workflow", "career"},
		maxGrade:    12,
		ease:        [2]float64{50, 70},
		maxLongWord: 0.20,
	},
	"senior": {
		terms:       []string{"strategy", "leadership", "scale", "roi", "organization", "architecture", "mentor", "transformation"},
		maxGrade:    14,
		ease:        [2]float64{40, 65},
		maxLongWord: 0.25,
	},
	"executive": {
		terms:       []string{"board", "enterprise", "strategic", "market", "growth", "stakeholders", "revenue", "investors", "vision"},
		maxGrade:    14,
		ease:        [2]float64{40, 65},
		maxLongWord: 0.25,
	},
}

// experienceAliases normalizes free-form experience levels
var experienceAliases = map[string]string{
	"entry": "entry", "entry-level": "entry", "entry_level": "entry", "junior": "entry", "beginner": "entry", "student": "entry",
	"mid": "mid", "mid-level": "mid", "mid_level": "mid", "intermediate": "mid", "professional": "mid",
	"senior": "senior", "expert": "senior", "advanced": "senior", "lead": "senior",
	"executive": "executive", "c-level": "executive", "c_level": "executive", "leadership": "executive", "director": "executive",
}

// ageTerms maps an age group to vocabulary that skews toward it
var ageTerms = map[string][]string{
	"18-24": {"college", "internship", "first job", "vibe", "lowkey", "tiktok", "gen z", "student"},
	"25-34": {"career", "side hustle", "remote", "work-life", "promotion", "startup", "millennial"},
	"35-44": {"family", "leadership", "team", "balance", "mortgage", "management"},
	"45-54": {"experience", "legacy", "mentoring", "industry", "decades", "stability"},
	"55+":   {"retirement", "legacy", "decades", "wisdom", "grandchildren", "experience"},
}

var ageAliases = map[string]string{
	"18-24": "18-24", "gen_z": "18-24", "gen z": "18-24", "genz": "18-24",
	"25-34": "25-34", "millennial": "25-34", "millennials": "25-34",
	"35-44": "35-44", "gen_x": "35-44", "gen x": "35-44",
	"45-54": "45-54",
	"55+":   "55+", "55-64": "55+", "65+": "55+", "boomer": "55+", "boomers": "55+",
}

// roleTerms maps a job title keyword to vocabulary that speaks to it
var roleTerms = map[string][]string{
	"ceo":       {"vision", "company", "board", "growth", "strategy", "leaders"},
	"cto":       {"architecture", "engineering", "technical", "platform", "infrastructure"},
	"founder":   {"startup", "founders", "fundraising", "product", "customers", "build"},
	"manager":   {"team", "managers", "people", "process", "feedback", "goals"},
	"director":  {"strategy", "teams", "roadmap", "budget", "organization"},
	"engineer":  {"code", "engineering", "developers", "technical", "systems", "debugging"},
	"developer": {"code", "developers", "api", "framework", "programming", "open source"},
	"designer":  {"design", "designers", "ux", "user", "interface", "prototype"},
	"marketer":  {"marketing", "campaign", "brand", "audience", "funnel"},
	"analyst":   {"data", "analysis", "metrics", "insights", "dashboard"},
	"recruiter": {"hiring", "talent", "candidates", "interview", "recruiting"},
	"sales":     {"deals", "pipeline", "prospects", "quota", "closing"},
}

// valueTerms expands an audience value into related vocabulary
var valueTerms = map[string][]string{
	"innovation":     {"innovative", "new", "future", "breakthrough", "disrupt", "invent"},
	"growth":         {"grow", "growing", "improve", "progress", "scale", "develop"},
	"integrity":      {"honest", "transparent", "trust", "ethical", "truth"},
	"sustainability": {"sustainable", "climate", "green", "renewable", "planet"},
	"community":      {"together", "community", "belong", "support", "network"},
	"efficiency":     {"efficient", "faster", "save time", "streamline", "productivity"},
	"quality":        {"quality", "craft", "excellence", "detail", "standards"},
	"diversity":      {"diverse", "inclusion", "inclusive", "equity", "belonging"},
	"security":       {"secure", "safe", "protect", "privacy", "risk"},
	"freedom":        {"freedom", "independent", "flexible", "choice", "autonomy"},
}

// motivationTerms expands an audience motivation into related vocabulary
var motivationTerms = map[string][]string{
	"achievement":   {"achieve", "win", "success", "goal", "results", "accomplish"},
	"recognition":   {"recognized", "award", "proud", "celebrate", "featured"},
	"learning":      {"learn", "lesson", "insight", "discover", "understand", "skills"},
	"growth":        {"grow", "career", "advance", "promotion", "develop"},
	"belonging":     {"community", "together", "join", "us", "we"},
	"security":      {"stable", "secure", "safe", "protect", "reliable"},
	"autonomy":      {"independent", "control", "freedom", "own", "choose"},
	"impact":        {"impact", "change", "difference", "mission", "purpose"},
	"financial":     {"money", "income", "revenue", "salary", "profit", "save"},
	"career":        {"career", "job", "promotion", "hiring", "role"},
	"curiosity":     {"why", "how", "discover", "explore", "surprising"},
	"entertainment": {"fun", "funny", "enjoy", "laugh", "story"},
}

// traitSignals maps a personality trait to vocabulary that appeals to it
var traitSignals = map[string][]string{
	"openness":          {"new", "idea", "ideas", "imagine", "creative", "explore", "future", "experiment", "curious"},
	"conscientiousness": {"plan", "step", "process", "data", "checklist", "framework", "detail", "organized", "results"},
	"extraversion":      {"we", "together", "community", "event", "join", "meet", "celebrate", "excited"},
	"agreeableness":     {"thank", "thanks", "together", "help", "support", "grateful", "team", "kind"},
	"neuroticism":       {"safe", "secure", "avoid", "mistake", "risk", "protect", "calm", "reliable"},
}

var casualMarkers = []string{
	"hey", "gonna", "wanna", "lol", "awesome", "super", "cool", "stuff", "kinda", "yeah",
	"honestly", "totally", "guys", "folks", "can't", "don't", "it's", "i'm", "you're", "let's",
}

var formalMarkers = []string{
	"therefore", "furthermore", "moreover", "however", "consequently", "accordingly",
	"regarding", "pursuant", "thus", "hence", "organization", "stakeholders",
}

var storytellingMarkers = []string{
	"i", "my", "when", "story", "remember", "once", "years ago", "learned", "realized", "yesterday",
}

var inspirationalMarkers = []string{
	"dream", "believe", "inspire", "possible", "journey", "never give up", "purpose", "passion", "courage",
}

// contentTypeSignals detects whether a submission looks like a given content type
var contentTypeSignals = map[string]func(f *Features) bool{
	"how-to": func(f *Features) bool {
		return f.Contains("how to") || f.Contains("step") || f.Contains("steps") || f.Contains("guide")
	},
	"educational": func(f *Features) bool {
		return f.CountTerms([]string{"learn", "lesson", "explain", "understand", "tips", "guide"}) > 0
	},
	"data-driven": func(f *Features) bool {
		return f.Numbers >= 2 || f.CountTerms([]string{"data", "study", "research", "survey", "percent"}) > 0
	},
	"storytelling": func(f *Features) bool {
		return f.CountTerms(storytellingMarkers) >= 3
	},
	"news": func(f *Features) bool {
		return f.CountTerms([]string{"announcing", "announced", "today", "breaking", "launch", "released"}) > 0
	},
	"opinion": func(f *Features) bool {
		return f.CountTerms([]string{"i think", "i believe", "unpopular opinion", "hot take", "in my view"}) > 0
	},
	"case study": func(f *Features) bool {
		return f.CountTerms([]string{"case study", "results", "client", "before", "after"}) >= 2
	},
	"lists": func(f *Features) bool {
		return f.HasList()
	},
	"visual": func(f *Features) bool {
		return f.Emojis > 0 || f.CountTerms([]string{"image", "photo", "video", "chart", "infographic"}) > 0
	},
	"humor": func(f *Features) bool {
		return f.CountTerms([]string{"funny", "lol", "joke", "haha", "laugh"}) > 0
	},
	"questions": func(f *Features) bool {
		return f.Questions > 0
	},
}

// contentTypeAliases normalizes free-form content preferences
var contentTypeAliases = map[string]string{
	"how-to": "how-to", "how_to": "how-to", "howto": "how-to", "tutorial": "how-to", "tutorials": "how-to",
	"educational": "educational", "education": "educational",
	"data-driven": "data-driven", "data_driven": "data-driven", "data": "data-driven", "statistics": "data-driven", "research": "data-driven",
	"storytelling": "storytelling", "stories": "storytelling", "personal": "storytelling",
	"news": "news", "industry_news": "news", "announcements": "news",
	"opinion": "opinion", "thought_leadership": "opinion", "thought leadership": "opinion",
	"case study": "case study", "case_study": "case study", "case_studies": "case study",
	"lists": "lists", "listicles": "lists", "list": "lists",
	"visual": "visual", "images": "visual", "video": "visual",
	"humor": "humor", "funny": "humor", "entertainment": "humor",
	"questions": "questions", "discussion": "questions", "polls": "questions",
}

// timelyMarkers signal fresh, time-sensitive content
var timelyMarkers = []string{
	"today", "now", "new", "just", "this week", "breaking", "latest", "announcing",
	"update", "launch", "launched", "this month", "upcoming", "tomorrow",
}

// staleMarkers signal retrospective content
var staleMarkers = []string{
	"last year", "throwback", "back in", "years ago", "flashback",
}

// dayFit is the relative posting-day quality per platform, indexed by time.Weekday
var dayFit = map[string][7]float64{
	"linkedin":  {0.3, 0.7, 1.0, 1.0, 1.0, 0.7, 0.3},
	"twitter":   {0.6, 0.8, 0.9, 0.9, 0.9, 0.8, 0.6},
	"facebook":  {0.7, 0.7, 0.8, 0.9, 0.9, 0.9, 0.7},
	"instagram": {0.7, 0.8, 0.8, 0.8, 0.8, 0.8, 0.7},
	"general":   {0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7},
}

// hookPowerWords make an opening line stand out
var hookPowerWords = []string{
	"you", "why", "how", "what", "secret", "mistake", "stop", "never", "new", "proven", "truth", "lessons",
}

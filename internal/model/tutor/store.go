package tutor

// Store exposes topic retrieval for HTTP handlers and the prompt builder.
type Store interface {
	List() []Topic
	FindByID(id string) (Topic, bool)
}

// MemoryStore holds the fixed topic catalog, indexed by id for lookup.
type MemoryStore struct {
	ordered []Topic
	byID    map[string]Topic
}

// Catalog returns the store preloaded with the built-in practice topics.
func Catalog() *MemoryStore {
	s := &MemoryStore{byID: make(map[string]Topic, len(builtinTopics))}
	for _, t := range builtinTopics {
		s.ordered = append(s.ordered, t)
		s.byID[t.ID] = t
	}
	return s
}

// List returns the catalog in display order.
func (s *MemoryStore) List() []Topic {
	return append([]Topic(nil), s.ordered...)
}

// FindByID looks up a topic by identifier.
func (s *MemoryStore) FindByID(id string) (Topic, bool) {
	t, ok := s.byID[id]
	return t, ok
}

var builtinTopics = []Topic{
	{
		ID:         "daily-life",
		Name:       "Daily life",
		PromptHint: "Chat about routines, errands, small everyday moments. Ask what the learner did today.",
	},
	{
		ID:         "travel",
		Name:       "Travel",
		PromptHint: "Talk about trips, places to visit, airports, hotels and holiday plans.",
	},
	{
		ID:         "work",
		Name:       "Work and studies",
		PromptHint: "Discuss jobs, meetings, colleagues, exams and professional goals.",
	},
	{
		ID:         "food",
		Name:       "Food and cooking",
		PromptHint: "Talk about favourite dishes, recipes, restaurants and eating habits.",
	},
	{
		ID:         "movies",
		Name:       "Movies and series",
		PromptHint: "Discuss films, series, actors and recommendations. Ask what the learner watched recently.",
	},
	{
		ID:         "hobbies",
		Name:       "Hobbies",
		PromptHint: "Explore sports, music, reading, games and weekend activities.",
	},
}

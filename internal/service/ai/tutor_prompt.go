package ai

import (
	"fmt"
	"strings"

	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
)

const basePrompt = `You are an empathetic, patient English-speaking friend and tutor. ` +
	`Converse naturally about everyday topics and keep responses friendly, roughly 1-3 short paragraphs. ` +
	`When the learner makes a mistake, correct it gently: put the fix on its own line starting with ` +
	`"✏️ Correction:" followed by the corrected sentence and a short explanation. ` +
	`Always end with a follow-up question that keeps the conversation going.`

// buildSystemPrompt assembles the system instruction from the learner's
// level and the selected topic. The topic may arrive as catalog id, as
// display name, or as free-form text.
func (s *Service) buildSystemPrompt(level tutor.Level, topic string) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	b.WriteString("\n\nLearner level: ")
	b.WriteString(string(level))
	b.WriteString(". ")
	b.WriteString(level.Guidance())

	if found, ok := s.lookupTopic(topic); ok {
		b.WriteString(fmt.Sprintf("\nConversation topic: %s. %s", found.Name, found.PromptHint))
	} else if topic != "" && topic != tutor.NoTopic {
		b.WriteString(fmt.Sprintf("\nConversation topic: %s.", topic))
	} else {
		b.WriteString("\nNo topic selected: follow the learner's lead and suggest everyday subjects.")
	}

	return b.String()
}

func (s *Service) lookupTopic(topic string) (tutor.Topic, bool) {
	if topic == "" || topic == tutor.NoTopic {
		return tutor.Topic{}, false
	}
	if found, ok := s.topics.FindByID(topic); ok {
		return found, true
	}
	for _, t := range s.topics.List() {
		if strings.EqualFold(t.Name, topic) {
			return t, true
		}
	}
	return tutor.Topic{}, false
}

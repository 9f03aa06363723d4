package domain

import "strings"

// Team представляет команду с единственным владельцем
type Team struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"` // Уникальный URL-safe идентификатор
	OwnerID string `json:"ownerId"`
}

// TeamCreateData содержит данные для создания новой команды
type TeamCreateData struct {
	Name    string
	Slug    string
	OwnerID string
}

// Slugify выводит slug из отображаемого имени команды: нижний регистр,
// последовательности не-алфавитно-цифровых символов заменяются одним
// дефисом, ведущие и завершающие дефисы отбрасываются.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

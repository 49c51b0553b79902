package services

import (
	"strings"
	"testing"

	"github.com/Dosada05/event-companion/models"
	"github.com/stretchr/testify/assert"
)

func takenSet(nicknames ...string) map[string]bool {
	taken := make(map[string]bool, len(nicknames))
	for _, n := range nicknames {
		taken[strings.ToLower(n)] = true
	}
	return taken
}

func TestComputeUniqueNicknameShortestPrefix(t *testing.T) {
	assert.Equal(t, "Alice J.", computeUniqueNickname("Alice Johnson", takenSet()))
}

func TestComputeUniqueNicknameGrowsPrefixOnCollision(t *testing.T) {
	taken := takenSet("Alice J.")
	assert.Equal(t, "Alice Jo.", computeUniqueNickname("Alice Johnson", taken))

	taken = takenSet("Alice J.", "Alice Jo.", "Alice Joh.")
	assert.Equal(t, "Alice John.", computeUniqueNickname("Alice Johnson", taken))
}

func TestComputeUniqueNicknameNumericFallback(t *testing.T) {
	taken := takenSet("Bo L.", "Bo Le.", "Bo Lee.")
	// Surname "Lee" is exhausted; the shortest form gets a counter.
	assert.Equal(t, "Bo L 2.", computeUniqueNickname("Bo Lee", taken))

	taken[strings.ToLower("Bo L 2.")] = true
	assert.Equal(t, "Bo L 3.", computeUniqueNickname("Bo Lee", taken))
}

func TestComputeUniqueNicknameSingleWordName(t *testing.T) {
	assert.Equal(t, "Madonna", computeUniqueNickname("Madonna", takenSet()))
	assert.Equal(t, "Madonna 2", computeUniqueNickname("Madonna", takenSet("Madonna")))
}

func TestComputeUniqueNicknameCaseInsensitive(t *testing.T) {
	assert.Equal(t, "Alice Jo.", computeUniqueNickname("Alice Johnson", takenSet("alice j.")))
}

func TestComputeUniqueNicknameSecondTokenIsSurname(t *testing.T) {
	assert.Equal(t, "Jan v.", computeUniqueNickname("Jan van den Berg", takenSet()))
}

func TestComputeUniqueNicknameEmptyName(t *testing.T) {
	assert.Empty(t, computeUniqueNickname("   ", takenSet()))
}

func TestComputeAllNicknamesMinimalGroupPrefix(t *testing.T) {
	nicknames := computeAllNicknames([]*models.Player{
		{ID: 1, Name: "Alice Johnson"},
		{ID: 2, Name: "Alice Jackson"},
		{ID: 3, Name: "Bob Smith"},
	})
	// Both Alices grow past the shared "J"; Bob stays at one letter.
	assert.Equal(t, "Alice Jo.", nicknames[1])
	assert.Equal(t, "Alice Ja.", nicknames[2])
	assert.Equal(t, "Bob S.", nicknames[3])
}

func TestComputeAllNicknamesOrderIndependent(t *testing.T) {
	forward := computeAllNicknames([]*models.Player{
		{ID: 1, Name: "Alice Johnson"},
		{ID: 2, Name: "Alice Jackson"},
	})
	reversed := computeAllNicknames([]*models.Player{
		{ID: 2, Name: "Alice Jackson"},
		{ID: 1, Name: "Alice Johnson"},
	})
	assert.Equal(t, forward, reversed)
}

func TestComputeAllNicknamesIdenticalNames(t *testing.T) {
	nicknames := computeAllNicknames([]*models.Player{
		{ID: 1, Name: "Bo Lee"},
		{ID: 2, Name: "Bo Lee"},
	})
	assert.Equal(t, "Bo Lee.", nicknames[1])
	assert.Equal(t, "Bo Lee 2.", nicknames[2])
}

func TestComputeAllNicknamesFirstNameOnly(t *testing.T) {
	nicknames := computeAllNicknames([]*models.Player{
		{ID: 1, Name: "Madonna"},
		{ID: 2, Name: "Madonna"},
	})
	assert.Equal(t, "Madonna", nicknames[1])
	assert.Equal(t, "Madonna 2", nicknames[2])
}

func TestComputeAllNicknamesCaseInsensitiveGrouping(t *testing.T) {
	nicknames := computeAllNicknames([]*models.Player{
		{ID: 1, Name: "alice johnson"},
		{ID: 2, Name: "Alice Jackson"},
	})
	assert.Equal(t, "alice jo.", nicknames[1])
	assert.Equal(t, "Alice Ja.", nicknames[2])
}

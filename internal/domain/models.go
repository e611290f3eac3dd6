package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Profile is a participant's authored set of answers to the icebreaker prompts.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Group      string `json:"group"`
	Food       string `json:"food"`
	Dream      string `json:"dream"`
	Hobby      string `json:"hobby"`
	Motto      string `json:"motto"`
	BucketList string `json:"bucketList"`
	SelfPraise string `json:"selfPraise"`
	WishToHear string `json:"wishToHear"`
	Greeting   string `json:"greeting"`
	CreatedAt  int64  `json:"createdAt"`
	IsFixture  bool   `json:"isFixture"`
}

var errProfileNotObject = errors.New("profile is not a JSON object")

// legacyFixtureIDs are the seed records written before profiles carried an
// explicit fixture flag.
var legacyFixtureIDs = map[string]struct{}{
	"1": {}, "2": {}, "3": {}, "4": {}, "5": {}, "6": {},
}

// UnmarshalJSON tolerates malformed records: non-string fields decode as empty
// strings instead of failing the whole list.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errProfileNotObject
	}
	str := func(key string) string {
		var s string
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, &s); err != nil {
				return ""
			}
		}
		return s
	}
	*p = Profile{
		ID:         str("id"),
		Name:       str("name"),
		Group:      str("group"),
		Food:       str("food"),
		Dream:      str("dream"),
		Hobby:      str("hobby"),
		Motto:      str("motto"),
		BucketList: str("bucketList"),
		SelfPraise: str("selfPraise"),
		WishToHear: str("wishToHear"),
		Greeting:   str("greeting"),
	}
	if v, ok := raw["createdAt"]; ok {
		var ms float64
		if err := json.Unmarshal(v, &ms); err == nil {
			p.CreatedAt = int64(ms)
		}
	}
	if v, ok := raw["isFixture"]; ok {
		_ = json.Unmarshal(v, &p.IsFixture)
	} else if _, legacy := legacyFixtureIDs[p.ID]; legacy {
		p.IsFixture = true
	}
	return nil
}

// DecodeProfiles decodes a stored profile list. Elements that are not JSON
// objects are dropped; the rest of the list still loads.
func DecodeProfiles(raw []byte) ([]Profile, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	profiles := make([]Profile, 0, len(elems))
	for _, elem := range elems {
		var p Profile
		if err := json.Unmarshal(elem, &p); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Field returns the value of a question field on the profile.
func (p Profile) Field(f QuestionField) string {
	switch f {
	case FieldFood:
		return p.Food
	case FieldDream:
		return p.Dream
	case FieldHobby:
		return p.Hobby
	case FieldMotto:
		return p.Motto
	case FieldBucketList:
		return p.BucketList
	case FieldSelfPraise:
		return p.SelfPraise
	}
	return ""
}

// CreatedTime converts CreatedAt (unix millis) to a time.Time.
func (p Profile) CreatedTime() time.Time {
	return time.UnixMilli(p.CreatedAt)
}

// QuestionField names a profile field that can become a quiz prompt.
type QuestionField string

const (
	FieldFood       QuestionField = "food"
	FieldDream      QuestionField = "dream"
	FieldHobby      QuestionField = "hobby"
	FieldMotto      QuestionField = "motto"
	FieldBucketList QuestionField = "bucketList"
	FieldSelfPraise QuestionField = "selfPraise"
)

// QuestionFields is the fixed, ordered set of prompt fields.
var QuestionFields = []QuestionField{
	FieldFood, FieldDream, FieldHobby, FieldMotto, FieldBucketList, FieldSelfPraise,
}

var promptLabels = map[QuestionField]string{
	FieldFood:       "소울 푸드가 이것인 주인공은?",
	FieldDream:      "교사로서 이런 꿈을 가진 주인공은?",
	FieldHobby:      "퇴근 후 이 취미를 즐기는 주인공은?",
	FieldMotto:      "이런 삶의 모토를 가진 주인공은?",
	FieldBucketList: "이 버킷리스트의 주인공은?",
	FieldSelfPraise: "자신에게 이런 칭찬을 건네는 주인공은?",
}

// PromptLabel returns the question shown above the field value.
func PromptLabel(f QuestionField) string {
	return promptLabels[f]
}

// AnswerableFields returns the question fields with non-blank values on p.
func AnswerableFields(p Profile) []QuestionField {
	fields := make([]QuestionField, 0, len(QuestionFields))
	for _, f := range QuestionFields {
		if strings.TrimSpace(p.Field(f)) != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Question is a single multiple-choice round.
type Question struct {
	Target  Profile
	Field   QuestionField
	Options []string
}

// Stage is the quiz controller's current state.
type Stage string

const (
	StageGroupSelect Stage = "groupSelect"
	StageLoading     Stage = "loading"
	StageNoData      Stage = "noData"
	StageActive      Stage = "active"
	StageAnswered    Stage = "answered"
)

// QuestionView is the client-facing part of a question; it never exposes the target.
type QuestionView struct {
	Field   QuestionField `json:"field"`
	Prompt  string        `json:"prompt"`
	Value   string        `json:"value"`
	Options []string      `json:"options"`
}

// Reveal is shown once the round is answered.
type Reveal struct {
	Name       string `json:"name"`
	WishToHear string `json:"wishToHear"`
	Greeting   string `json:"greeting"`
}

// SessionState is a snapshot of a quiz session.
type SessionState struct {
	SessionID     string        `json:"sessionId"`
	Stage         Stage         `json:"stage"`
	SelectedGroup string        `json:"selectedGroup,omitempty"`
	Question      *QuestionView `json:"question,omitempty"`
	Answered      bool          `json:"answered"`
	IsCorrect     bool          `json:"isCorrect"`
	HintRevealed  bool          `json:"hintRevealed"`
	Hint          string        `json:"hint,omitempty"`
	Reveal        *Reveal       `json:"reveal,omitempty"`
	Score         int           `json:"score"`
}

// GroupCount reports how many real profiles belong to a group.
type GroupCount struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

// View is a navigable screen of the app.
type View string

const (
	ViewHome    View = "HOME"
	ViewProfile View = "PROFILE"
	ViewQuiz    View = "QUIZ"
	ViewGallery View = "GALLERY"
)

// DefaultGroups is the team catalog used when none is configured.
var DefaultGroups = []string{
	"교무실팀", "행정실팀", "1학년팀", "2학년팀", "3학년팀", "4학년팀",
	"5학년팀", "6학년팀", "비교과-전담교사팀", "식생활관팀",
	"방과후 돌봄팀", "기타 A팀", "기타 B팀",
}

// RealProfiles drops fixture records.
func RealProfiles(all []Profile) []Profile {
	out := make([]Profile, 0, len(all))
	for _, p := range all {
		if !p.IsFixture {
			out = append(out, p)
		}
	}
	return out
}

// InGroup returns profiles belonging to group.
func InGroup(profiles []Profile, group string) []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.Group == group {
			out = append(out, p)
		}
	}
	return out
}

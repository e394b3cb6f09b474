package skills

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/types"
)

type stubClient struct {
	reply  string
	err    error
	prompt string
	tier   llm.ModelTier
}

func (s *stubClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.GenerateJSON(ctx, prompt, tier)
}

func (s *stubClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.prompt, s.tier = prompt, tier
	return s.reply, s.err
}

func (s *stubClient) GetModel(llm.ModelTier) string { return "stub" }
func (s *stubClient) Close() error                  { return nil }

const profileReply = "```json\n" + `{
  "technical_skills": [
    {"skill": "Python", "frequency": 3, "importance": "high"},
    {"skill": " python ", "frequency": 5, "importance": "medium"},
    {"skill": "SQL", "frequency": 2, "importance": "Critical"},
    {"skill": "", "frequency": 1, "importance": "low"}
  ],
  "soft_skills": [{"skill": "Communication", "frequency": 2}],
  "knowledge_domains": [{"domain": "Machine Learning", "frequency": 2}, {"domain": "machine learning", "frequency": 1}],
  "responsibilities": [{"responsibility": "Build models", "frequency": 1}]
}` + "\n```"

func TestExtractProfile(t *testing.T) {
	client := &stubClient{reply: profileReply}

	profile, err := ExtractProfile(context.Background(), client, []string{"Posting A", "Posting B"}, "Data Scientist")
	require.NoError(t, err)

	assert.Equal(t, llm.TierStandard, client.tier)
	assert.Contains(t, client.prompt, "Data Scientist positions")
	assert.Contains(t, client.prompt, "Posting A\n\n---\n\nPosting B")

	require.Len(t, profile.TechnicalSkills, 2)
	assert.Equal(t, types.TechnicalSkill{Skill: "Python", Frequency: 5, Importance: "high"}, profile.TechnicalSkills[0])
	assert.Equal(t, "medium", profile.TechnicalSkills[1].Importance)
	assert.Len(t, profile.KnowledgeDomains, 1)
	assert.Equal(t, 2, profile.KnowledgeDomains[0].Frequency)
}

func TestExtractProfile_Errors(t *testing.T) {
	_, err := ExtractProfile(context.Background(), &stubClient{}, nil, "Nurse")
	require.Error(t, err)

	_, err = ExtractProfile(context.Background(), &stubClient{err: errors.New("quota")}, []string{"p"}, "Nurse")
	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, err.Error(), "quota")

	_, err = ExtractProfile(context.Background(), &stubClient{reply: "not json"}, []string{"p"}, "Nurse")
	assert.Error(t, err)

	_, err = ExtractProfile(context.Background(), &stubClient{reply: `{"technical_skills": []}`}, []string{"p"}, "Nurse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no skills found")
}

func TestNormalizeImportance(t *testing.T) {
	assert.Equal(t, "high", NormalizeImportance(" HIGH "))
	assert.Equal(t, "low", NormalizeImportance("low"))
	assert.Equal(t, "medium", NormalizeImportance("nice to have"))
	assert.Equal(t, "medium", NormalizeImportance(""))
}

func TestNormalizeProfile_NilSlices(t *testing.T) {
	profile := &types.SkillProfile{}
	NormalizeProfile(profile)

	assert.NotNil(t, profile.TechnicalSkills)
	assert.NotNil(t, profile.SoftSkills)
	assert.NotNil(t, profile.KnowledgeDomains)
	assert.NotNil(t, profile.Responsibilities)
}

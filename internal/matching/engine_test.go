package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gopact/gopact/internal/matcherdsl"
	"github.com/gopact/gopact/internal/rules"
)

func compileBody(t *testing.T, expected any) (any, rules.Table) {
	t.Helper()
	example, table, err := rules.Compile(expected, rules.SectionBody, rules.V3)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return example, table
}

func TestCompareBody_LikeAcceptsExtraKeys(t *testing.T) {
	example, table := compileBody(t, map[string]any{
		"name": matcherdsl.Like("Alice"),
	})
	actual := map[string]any{"name": "Bob", "extra": "field"}
	assert.Empty(t, CompareBody(example, actual, table))
}

func TestCompareBody_LikeTypeViolation(t *testing.T) {
	example, table := compileBody(t, map[string]any{
		"age": matcherdsl.Like(30),
	})
	actual := map[string]any{"age": "thirty"}
	mismatches := CompareBody(example, actual, table)
	assert.Len(t, mismatches, 1)
	assert.Contains(t, mismatches[0].Reason, "expected number")
}

func TestCompareBody_EachLikeMinLength(t *testing.T) {
	example, table := compileBody(t, map[string]any{
		"items": matcherdsl.EachLike(map[string]any{"id": matcherdsl.Like(1)}, 2),
	})
	tooFew := map[string]any{"items": []any{map[string]any{"id": float64(9)}}}
	mismatches := CompareBody(example, tooFew, table)
	if assert.NotEmpty(t, mismatches) {
		assert.Contains(t, mismatches[0].Reason, "length >= 2")
	}

	enough := map[string]any{"items": []any{
		map[string]any{"id": float64(9)},
		map[string]any{"id": float64(10)},
		map[string]any{"id": float64(11)},
	}}
	assert.Empty(t, CompareBody(example, enough, table))
}

func TestCompareBody_TermRegex(t *testing.T) {
	example, table := compileBody(t, map[string]any{
		"status": matcherdsl.Term("pending|approved|rejected", "approved"),
	})
	assert.Empty(t, CompareBody(example, map[string]any{"status": "rejected"}, table))
	mismatches := CompareBody(example, map[string]any{"status": "cancelled"}, table)
	assert.NotEmpty(t, mismatches)
}

func TestCompareBody_EqualityDisablesInheritedType(t *testing.T) {
	example, table := compileBody(t, map[string]any{
		"kind": matcherdsl.Like(map[string]any{
			"discriminator": matcherdsl.Equals("user"),
		}),
	})
	matching := map[string]any{"kind": map[string]any{"discriminator": "user"}}
	assert.Empty(t, CompareBody(example, matching, table))

	notEqual := map[string]any{"kind": map[string]any{"discriminator": "admin"}}
	mismatches := CompareBody(example, notEqual, table)
	assert.NotEmpty(t, mismatches)
}

func TestCompareBody_IncludesSubstring(t *testing.T) {
	example, table := compileBody(t, map[string]any{
		"message": matcherdsl.Includes("success", "operation success"),
	})
	assert.Empty(t, CompareBody(example, map[string]any{"message": "the operation was a success"}, table))
	mismatches := CompareBody(example, map[string]any{"message": "failed"}, table)
	assert.NotEmpty(t, mismatches)
}

func TestCompareBody_StrictEqualityRejectsExtraKeys(t *testing.T) {
	example, table := compileBody(t, map[string]any{"id": 1})
	mismatches := CompareBody(example, map[string]any{"id": float64(1), "extra": true}, table)
	if assert.NotEmpty(t, mismatches) {
		assert.Contains(t, mismatches[0].Reason, "unexpected key")
	}
}

func TestCompareBody_ArrayContainsEachVariant(t *testing.T) {
	example, table := compileBody(t, map[string]any{
		"events": matcherdsl.ArrayContains(
			map[string]any{"type": matcherdsl.Equals("created")},
			map[string]any{"type": matcherdsl.Equals("deleted")},
		),
	})
	actual := map[string]any{"events": []any{
		map[string]any{"type": "created", "at": "t1"},
		map[string]any{"type": "deleted", "at": "t2"},
	}}
	assert.Empty(t, CompareBody(example, actual, table))

	missingVariant := map[string]any{"events": []any{
		map[string]any{"type": "created", "at": "t1"},
	}}
	mismatches := CompareBody(example, missingVariant, table)
	assert.NotEmpty(t, mismatches)
}

func TestCompareQuery_UndeclaredNameRejected(t *testing.T) {
	mismatches := CompareQuery(
		map[string][]string{"page": {"1"}},
		map[string][]string{"page": {"1"}, "debug": {"true"}},
		nil,
	)
	if assert.Len(t, mismatches, 1) {
		assert.Contains(t, mismatches[0].Reason, "unexpected query parameter")
	}
}

func TestCompareHeaders_CaseInsensitiveName(t *testing.T) {
	mismatches := CompareHeaders(
		map[string]string{"Content-Type": "application/json"},
		map[string][]string{"content-type": {"application/json"}},
		nil,
	)
	assert.Empty(t, mismatches)
}

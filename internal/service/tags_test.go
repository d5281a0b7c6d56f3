package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ghoplin/internal/domain"
	"ghoplin/internal/service/mocks"
)

func TestLoadTagReconciler_ReadsAllPages(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagStore(ctrl)

	gomock.InOrder(
		tags.EXPECT().ListTags(gomock.Any(), 1).Return([]domain.Tag{
			{ID: "1", Title: "go"},
			{ID: "2", Title: "news"},
		}, true, nil),
		tags.EXPECT().ListTags(gomock.Any(), 2).Return([]domain.Tag{
			{ID: "3", Title: "Go"},
			{ID: "4", Title: "rust"},
		}, false, nil),
	)

	r, err := LoadTagReconciler(ctx, tags, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())
	tag, ok := r.Lookup(" GO ")
	assert.True(t, ok)
	assert.Equal(t, "1", tag.ID)
	_, ok = r.Lookup("python")
	assert.False(t, ok)
}

func TestLoadTagReconciler_PageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagStore(ctrl)
	tags.EXPECT().ListTags(gomock.Any(), 1).Return(nil, false, domain.ErrTransport)

	_, err := LoadTagReconciler(context.Background(), tags, discardLogger())

	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestTagReconciler_EnsureAndAssign(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagStore(ctrl)
	tags.EXPECT().ListTags(gomock.Any(), 1).Return([]domain.Tag{{ID: "t-go", Title: "go"}}, false, nil)

	r, err := LoadTagReconciler(ctx, tags, discardLogger())
	require.NoError(t, err)

	tags.EXPECT().CreateTag(gomock.Any(), "devops").Return(domain.Tag{ID: "t-devops", Title: "devops"}, nil).Times(1)
	tags.EXPECT().AssignTag(gomock.Any(), "t-go", "n1").Return(nil)
	tags.EXPECT().AssignTag(gomock.Any(), "t-devops", "n1").Return(nil)
	tags.EXPECT().AssignTag(gomock.Any(), "t-devops", "n2").Return(nil)

	assigned, failed := r.EnsureAndAssign(ctx, "n1", []string{"Go", "DevOps"}, []string{"go"})
	assert.Equal(t, []string{"go", "devops"}, assigned)
	assert.Zero(t, failed)

	assigned, failed = r.EnsureAndAssign(ctx, "n2", nil, []string{"devops"})
	assert.Equal(t, []string{"devops"}, assigned)
	assert.Zero(t, failed)
	assert.Equal(t, 2, r.Len())
}

func TestTagReconciler_FailuresContinue(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	tags := mocks.NewMockTagStore(ctrl)
	tags.EXPECT().ListTags(gomock.Any(), 1).Return([]domain.Tag{{ID: "t-a", Title: "a"}}, false, nil)

	r, err := LoadTagReconciler(ctx, tags, discardLogger())
	require.NoError(t, err)

	tags.EXPECT().AssignTag(gomock.Any(), "t-a", "n1").Return(errors.New("rejected"))
	tags.EXPECT().CreateTag(gomock.Any(), "b").Return(domain.Tag{}, errors.New("rejected"))
	tags.EXPECT().CreateTag(gomock.Any(), "c").Return(domain.Tag{ID: "t-c", Title: "c"}, nil)
	tags.EXPECT().AssignTag(gomock.Any(), "t-c", "n1").Return(nil)

	assigned, failed := r.EnsureAndAssign(ctx, "n1", []string{"a", "b", "c"}, nil)

	assert.Equal(t, []string{"c"}, assigned)
	assert.Equal(t, 2, failed)
	_, cached := r.Lookup("b")
	assert.False(t, cached)
}

func TestMergeTags(t *testing.T) {
	tests := []struct {
		name  string
		lists [][]string
		want  []string
	}{
		{name: "empty", lists: nil, want: nil},
		{name: "blanks dropped", lists: [][]string{{"", "  "}}, want: nil},
		{name: "case folded", lists: [][]string{{"Go", "GO "}, {"go"}}, want: []string{"go"}},
		{name: "order kept", lists: [][]string{{"b", "a"}, {"c", "a"}}, want: []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeTags(tt.lists...))
		})
	}
}

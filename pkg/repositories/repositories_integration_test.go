package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/testhelpers"
)

// createTestUser inserts a user the way registration does: role author,
// no region.
func createTestUser(t *testing.T, repo UserRepository, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         models.RoleAuthor,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createDraftAsset(t *testing.T, repo AssetRepository, ownerID int64, fields models.AssetFields) *models.KnowledgeAsset {
	t.Helper()

	asset := &models.KnowledgeAsset{
		Title:           fields.Title,
		Description:     fields.Description,
		Status:          models.StatusDraft,
		OwnerUserID:     ownerID,
		Keywords:        fields.Keywords,
		SourceURL:       fields.SourceURL,
		AssetType:       fields.AssetType,
		Confidentiality: fields.Confidentiality,
		SourceProjectID: fields.SourceProjectID,
		WorkspaceID:     fields.WorkspaceID,
		VersionMajor:    1,
	}
	require.NoError(t, repo.Create(context.Background(), asset))
	return asset
}

func TestUserRepository_CreateWithoutRegion(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := createTestUser(t, repo, "no-region@example.com")
	require.NotZero(t, user.ID)

	loaded, err := repo.GetByEmail(ctx, "no-region@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	assert.Equal(t, models.RoleAuthor, loaded.Role)
	assert.Empty(t, loaded.Region)
}

func TestUserRepository_ReadsMixedCaseRole(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := createTestUser(t, repo, "mixed-case-role@example.com")
	_, err := testDB.DB.Exec(ctx, `UPDATE users SET role = 'Admin' WHERE id = $1`, user.ID)
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, loaded.Role)
}

func TestAssetRepository_CreateWithOnlyTitle(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	userRepo := NewUserRepository(testDB.DB)
	assetRepo := NewAssetRepository(testDB.DB)
	ctx := context.Background()

	owner := createTestUser(t, userRepo, "minimal-asset-owner@example.com")
	asset := createDraftAsset(t, assetRepo, owner.ID, models.AssetFields{Title: "Bare draft"})
	require.NotZero(t, asset.ID)

	loaded, err := assetRepo.GetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bare draft", loaded.Title)
	assert.Equal(t, models.StatusDraft, loaded.Status)
	assert.Empty(t, loaded.Keywords)
	assert.Empty(t, loaded.SourceURL)
	assert.Empty(t, loaded.AssetType)
	assert.Empty(t, loaded.Confidentiality)
	assert.Empty(t, loaded.SourceProjectID)
	assert.Nil(t, loaded.WorkspaceID)
}

func TestAssetRepository_UpdateFieldsClearsOptionals(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	userRepo := NewUserRepository(testDB.DB)
	assetRepo := NewAssetRepository(testDB.DB)
	ctx := context.Background()

	owner := createTestUser(t, userRepo, "update-asset-owner@example.com")
	asset := createDraftAsset(t, assetRepo, owner.ID, models.AssetFields{
		Title:     "Tagged draft",
		Keywords:  "cloud, migration",
		SourceURL: "https://example.com/doc",
	})

	asset.Keywords = ""
	asset.SourceURL = ""
	require.NoError(t, assetRepo.UpdateFields(ctx, asset))

	loaded, err := assetRepo.GetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Keywords)
	assert.Empty(t, loaded.SourceURL)
}

func TestAssetRepository_MarkRejectedWithEmptyComment(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	userRepo := NewUserRepository(testDB.DB)
	assetRepo := NewAssetRepository(testDB.DB)
	ctx := context.Background()

	owner := createTestUser(t, userRepo, "rejected-asset-owner@example.com")
	asset := createDraftAsset(t, assetRepo, owner.ID, models.AssetFields{Title: "Soon rejected"})

	require.NoError(t, assetRepo.MarkRejected(ctx, asset.ID, ""))

	loaded, err := assetRepo.GetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, loaded.Status)
	assert.Empty(t, loaded.ReviewComment)
}

func TestGovernanceRepository_ActionWithEmptyCommentsAndOutcome(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	userRepo := NewUserRepository(testDB.DB)
	assetRepo := NewAssetRepository(testDB.DB)
	governanceRepo := NewGovernanceRepository(testDB.DB)
	ctx := context.Background()

	reviewer := createTestUser(t, userRepo, "bare-decision-reviewer@example.com")
	asset := createDraftAsset(t, assetRepo, reviewer.ID, models.AssetFields{Title: "Reviewed asset"})

	action := &models.GovernanceAction{
		AssetID:     asset.ID,
		Action:      models.GovernanceActionApproved,
		ActorUserID: reviewer.ID,
	}
	require.NoError(t, governanceRepo.CreateAction(ctx, action))
	require.NotZero(t, action.ID)

	actions, err := governanceRepo.ListActionsForAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, models.GovernanceActionApproved, actions[0].Action)
	assert.Empty(t, actions[0].Comments)
	assert.Empty(t, actions[0].Outcome)
	assert.Empty(t, actions[0].Issues)
}

func TestAuditRepository_SystemEntryWithEmptyNotes(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	userRepo := NewUserRepository(testDB.DB)
	assetRepo := NewAssetRepository(testDB.DB)
	auditRepo := NewAuditRepository(testDB.DB)
	ctx := context.Background()

	owner := createTestUser(t, userRepo, "audited-asset-owner@example.com")
	asset := createDraftAsset(t, assetRepo, owner.ID, models.AssetFields{Title: "Audited asset"})

	entry := &models.AuditLogEntry{
		Action:    models.AuditActionExpire,
		ContentID: asset.ID,
	}
	require.NoError(t, auditRepo.Create(ctx, entry))

	entries, err := auditRepo.ListByContent(ctx, asset.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ActorUserID)
	assert.Empty(t, entries[0].Notes)
	assert.Empty(t, entries[0].ActorName)
}

func TestMentoringRepository_CreateWithEmptyMessage(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	userRepo := NewUserRepository(testDB.DB)
	mentoringRepo := NewMentoringRepository(testDB.DB)
	ctx := context.Background()

	requester := createTestUser(t, userRepo, "mentoring-requester@example.com")
	champion := createTestUser(t, userRepo, "mentoring-champion@example.com")

	request := &models.MentoringRequest{
		RequesterUserID: requester.ID,
		ChampionUserID:  champion.ID,
		Topic:           "Data migration patterns",
		Status:          models.MentoringOpen,
	}
	require.NoError(t, mentoringRepo.Create(ctx, request))

	loaded, err := mentoringRepo.GetForChampion(ctx, request.ID, champion.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data migration patterns", loaded.Topic)
	assert.Empty(t, loaded.Message)
	assert.Equal(t, models.MentoringOpen, loaded.Status)
}

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/testutil"
	"github.com/yukikurage/task-reminder-api/internal/utils"
	"gorm.io/gorm"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	users UserRepository
}

func (suite *UserRepositoryTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.users = NewUserRepository(suite.db)
}

func (suite *UserRepositoryTestSuite) TestFindBySocialOrEmail() {
	socialID := "g-123"
	linked := &models.User{Name: "Linked", Email: "linked@example.com", SocialID: &socialID, SocialType: models.SocialProviderGoogle}
	suite.Require().NoError(suite.users.Create(linked))
	plain := testutil.CreateUser(suite.T(), suite.db, "plain@example.com")

	found, err := suite.users.FindBySocialOrEmail(models.SocialProviderGoogle, "g-123", "other@example.com")
	suite.Require().NoError(err)
	suite.Equal(linked.ID, found.ID)

	found, err = suite.users.FindBySocialOrEmail(models.SocialProviderGitHub, "gh-1", "plain@example.com")
	suite.Require().NoError(err)
	suite.Equal(plain.ID, found.ID)

	_, err = suite.users.FindBySocialOrEmail(models.SocialProviderGitHub, "gh-1", "nobody@example.com")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *UserRepositoryTestSuite) TestEmailTaken() {
	user := testutil.CreateUser(suite.T(), suite.db, "taken@example.com")

	taken, err := suite.users.EmailTaken("taken@example.com", 0)
	suite.Require().NoError(err)
	suite.True(taken)

	taken, err = suite.users.EmailTaken("taken@example.com", user.ID)
	suite.Require().NoError(err)
	suite.False(taken)
}

func (suite *UserRepositoryTestSuite) TestDeleteCascades() {
	user := testutil.CreateUser(suite.T(), suite.db, "gone@example.com")
	keep := testutil.CreateUser(suite.T(), suite.db, "keep@example.com")

	testutil.CreateTask(suite.T(), suite.db, user.ID, "mine", models.TaskStatusInProgress, time.Now())
	testutil.CreateTask(suite.T(), suite.db, keep.ID, "theirs", models.TaskStatusInProgress, time.Now())
	suite.Require().NoError(NewActivityRepository(suite.db).Create(&models.UserActivity{UserID: user.ID, Action: models.ActivityLogin}))
	suite.Require().NoError(NewPushSubscriptionRepository(suite.db).Upsert(&models.PushSubscription{UserID: user.ID, Endpoint: "https://push.example/1", P256dhKey: "k", AuthToken: "a"}))
	suite.Require().NoError(NewTokenRepository(suite.db).Create(&models.PersonalAccessToken{ID: "tok-1", UserID: user.ID, Name: "auth_token", ExpiresAt: time.Now().Add(time.Hour)}))
	suite.Require().NoError(NewPasswordResetRepository(suite.db).Put(user.Email, "hash", time.Now()))

	suite.Require().NoError(suite.users.Delete(user.ID))

	count := func(model interface{}, query string, args ...interface{}) int64 {
		var n int64
		suite.Require().NoError(suite.db.Model(model).Where(query, args...).Count(&n).Error)
		return n
	}
	suite.Zero(count(&models.User{}, "id = ?", user.ID))
	suite.Zero(count(&models.Task{}, "user_id = ?", user.ID))
	suite.Zero(count(&models.UserActivity{}, "user_id = ?", user.ID))
	suite.Zero(count(&models.PushSubscription{}, "user_id = ?", user.ID))
	suite.Zero(count(&models.PersonalAccessToken{}, "user_id = ?", user.ID))
	suite.Zero(count(&models.PasswordResetToken{}, "email = ?", user.Email))
	suite.Equal(int64(1), count(&models.Task{}, "user_id = ?", keep.ID))

	suite.ErrorIs(suite.users.Delete(user.ID), gorm.ErrRecordNotFound)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}

type SupportRepositoriesTestSuite struct {
	suite.Suite
	db   *gorm.DB
	user *models.User
}

func (suite *SupportRepositoriesTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.user = testutil.CreateUser(suite.T(), suite.db, "support@example.com")
}

func (suite *SupportRepositoriesTestSuite) TestPushSubscriptionUpsertReplacesKeys() {
	subs := NewPushSubscriptionRepository(suite.db)
	endpoint := "https://push.example/device"

	suite.Require().NoError(subs.Upsert(&models.PushSubscription{UserID: suite.user.ID, Endpoint: endpoint, P256dhKey: "old", AuthToken: "old"}))
	suite.Require().NoError(subs.Upsert(&models.PushSubscription{UserID: suite.user.ID, Endpoint: endpoint, P256dhKey: "new", AuthToken: "new"}))

	list, err := subs.ListByUser(suite.user.ID)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)
	suite.Equal("new", list[0].P256dhKey)
	suite.Equal("new", list[0].AuthToken)

	n, err := subs.DeleteByUserEndpoint(suite.user.ID, "https://push.example/unknown")
	suite.Require().NoError(err)
	suite.Zero(n)

	n, err = subs.DeleteByUser(suite.user.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), n)
}

func (suite *SupportRepositoriesTestSuite) TestActivityNewestFirst() {
	activities := NewActivityRepository(suite.db)
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	for i, action := range []models.ActivityAction{models.ActivityRegister, models.ActivityLogin, models.ActivityLogout} {
		suite.Require().NoError(activities.Create(&models.UserActivity{
			UserID:    suite.user.ID,
			Action:    action,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, total, err := activities.ListByUser(suite.user.ID, utils.NewPaginationParams(1, 2))
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(list, 2)
	suite.Equal(models.ActivityLogout, list[0].Action)
	suite.Equal(models.ActivityLogin, list[1].Action)
}

func (suite *SupportRepositoriesTestSuite) TestTokens() {
	tokens := NewTokenRepository(suite.db)
	suite.Require().NoError(tokens.Create(&models.PersonalAccessToken{ID: "a", UserID: suite.user.ID, Name: "auth_token", ExpiresAt: time.Now().Add(time.Hour)}))
	suite.Require().NoError(tokens.Create(&models.PersonalAccessToken{ID: "b", UserID: suite.user.ID, Name: "auth_token", ExpiresAt: time.Now().Add(time.Hour)}))

	used := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	suite.Require().NoError(tokens.Touch("a", used))
	tok, err := tokens.Find("a")
	suite.Require().NoError(err)
	suite.Require().NotNil(tok.LastUsedAt)
	suite.True(used.Equal(*tok.LastUsedAt))

	suite.Require().NoError(tokens.Delete("a"))
	_, err = tokens.Find("a")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	suite.Require().NoError(tokens.DeleteByUser(suite.user.ID))
	_, err = tokens.Find("b")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *SupportRepositoriesTestSuite) TestPasswordResetPutReplaces() {
	resets := NewPasswordResetRepository(suite.db)
	suite.Require().NoError(resets.Put("support@example.com", "first", time.Now()))
	suite.Require().NoError(resets.Put("support@example.com", "second", time.Now()))

	row, err := resets.Find("support@example.com")
	suite.Require().NoError(err)
	suite.Equal("second", row.TokenHash)

}

func (suite *SupportRepositoriesTestSuite) TestResetPasswordConsumesToken() {
	resets := NewPasswordResetRepository(suite.db)
	users := NewUserRepository(suite.db)
	suite.Require().NoError(resets.Put("support@example.com", "hash", time.Now()))

	suite.Require().NoError(users.ResetPassword(suite.user.ID, "support@example.com", "new-hash"))

	user, err := users.FindByID(suite.user.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(user.PasswordHash)
	suite.Equal("new-hash", *user.PasswordHash)

	_, err = resets.Find("support@example.com")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	suite.ErrorIs(users.ResetPassword(suite.user.ID+100, "support@example.com", "x"), gorm.ErrRecordNotFound)
}

func TestSupportRepositoriesTestSuite(t *testing.T) {
	suite.Run(t, new(SupportRepositoriesTestSuite))
}

func TestResetPassword_RollsBackWhenTokenDeleteFails(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET `password_hash`=\\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `password_reset_tokens` WHERE email = \\?").
		WithArgs("reset@example.com").
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := NewUserRepository(db).ResetPassword(7, "reset@example.com", "new-hash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to consume reset token")
	assert.NoError(t, mock.ExpectationsWereMet())
}

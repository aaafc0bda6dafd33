package service

import (
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressFixture struct {
	env   *testEnv
	user  *model.User
	major *model.MajorCategory
	minor *model.MinorCategory
	video *model.Video
}

// newProgressFixture 一个已激活报名的用户和一个300秒的视频
func newProgressFixture(t *testing.T) *progressFixture {
	t.Helper()
	env := newTestEnv(t)

	user := env.createUser(t, "student@test.com")
	major := env.createCourse(t, "Go进阶")
	minor := env.createUnit(t, major.ID, "并发", 1)
	env.activeEnrollment(t, user.ID, major.ID)
	video := env.createVideo(t, minor.ID, "goroutine入门", 300)

	return &progressFixture{env: env, user: user, major: major, minor: minor, video: video}
}

func TestUpdateProgressClampsToDuration(t *testing.T) {
	f := newProgressFixture(t)

	// 上报的位置超过视频时长，全部钳制到300秒
	progress, err := f.env.progress.UpdateProgress(context.Background(), f.user.ID, f.video.ID, &UpdateProgressRequest{
		AdditionalTimeSec: 450,
		LastPositionSec:   450,
	})
	require.NoError(t, err)

	assert.Equal(t, 300, progress.LastPositionSec)
	assert.Equal(t, 300, progress.TimeSpentSec)
	assert.Equal(t, 100, progress.ProgressPercent)
	assert.True(t, progress.IsCompleted)
}

func TestUpdateProgressFloorsPercent(t *testing.T) {
	f := newProgressFixture(t)

	progress, err := f.env.progress.UpdateProgress(context.Background(), f.user.ID, f.video.ID, &UpdateProgressRequest{
		AdditionalTimeSec: 10,
		LastPositionSec:   299,
	})
	require.NoError(t, err)

	// 299/300 = 99.67%，向下取整到99，不算完成
	assert.Equal(t, 99, progress.ProgressPercent)
	assert.False(t, progress.IsCompleted)
}

func TestUpdateProgressRejectsNegativeInput(t *testing.T) {
	f := newProgressFixture(t)

	_, err := f.env.progress.UpdateProgress(context.Background(), f.user.ID, f.video.ID, &UpdateProgressRequest{
		AdditionalTimeSec: -1,
		LastPositionSec:   10,
	})
	require.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = f.env.progress.UpdateProgress(context.Background(), f.user.ID, f.video.ID, &UpdateProgressRequest{
		AdditionalTimeSec: 10,
		LastPositionSec:   -1,
	})
	require.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestUpdateProgressRequiresActiveEnrollment(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "student@test.com")
	major := env.createCourse(t, "Go进阶")
	minor := env.createUnit(t, major.ID, "并发", 1)
	video := env.createVideo(t, minor.ID, "视频", 300)

	// pending状态的报名不允许写进度
	_, err := env.enrollment.Enroll(user.ID, major.ID)
	require.NoError(t, err)

	_, err = env.progress.UpdateProgress(context.Background(), user.ID, video.ID, &UpdateProgressRequest{
		AdditionalTimeSec: 10,
		LastPositionSec:   10,
	})
	require.ErrorIs(t, err, util.ErrEnrollmentNotActive)
}

func TestUpdateProgressAccumulatesTimeSpent(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	_, err := f.env.progress.UpdateProgress(ctx, f.user.ID, f.video.ID, &UpdateProgressRequest{
		AdditionalTimeSec: 120,
		LastPositionSec:   100,
	})
	require.NoError(t, err)

	progress, err := f.env.progress.UpdateProgress(ctx, f.user.ID, f.video.ID, &UpdateProgressRequest{
		AdditionalTimeSec: 100,
		LastPositionSec:   200,
	})
	require.NoError(t, err)

	assert.Equal(t, 220, progress.TimeSpentSec)
	assert.Equal(t, 66, progress.ProgressPercent) // 200/300 向下取整

	// 累计时长不超过视频时长
	progress, err = f.env.progress.UpdateProgress(ctx, f.user.ID, f.video.ID, &UpdateProgressRequest{
		AdditionalTimeSec: 500,
		LastPositionSec:   250,
	})
	require.NoError(t, err)
	assert.Equal(t, 300, progress.TimeSpentSec)
}

func TestUpdateProgressTouchesLastAccessed(t *testing.T) {
	f := newProgressFixture(t)
	before := time.Now().Add(-time.Second)

	progress, err := f.env.progress.UpdateProgress(context.Background(), f.user.ID, f.video.ID, &UpdateProgressRequest{
		AdditionalTimeSec: 1,
		LastPositionSec:   1,
	})
	require.NoError(t, err)
	assert.True(t, progress.LastAccessed.After(before))
}

func TestGetDetailLazyCreates(t *testing.T) {
	f := newProgressFixture(t)

	progress, err := f.env.progress.GetDetail(f.user.ID, f.video.ID)
	require.NoError(t, err)
	assert.Zero(t, progress.ProgressPercent)
	assert.False(t, progress.IsCompleted)
	assert.NotZero(t, progress.ID)

	// 再次查看复用同一条记录
	again, err := f.env.progress.GetDetail(f.user.ID, f.video.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.ID, again.ID)
}

func TestMinorProgressRollup(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	second := f.env.createVideo(t, f.minor.ID, "channel进阶", 100)

	// 第一个视频100%，第二个视频50%，没看过的不计入分子
	_, err := f.env.progress.UpdateProgress(ctx, f.user.ID, f.video.ID, &UpdateProgressRequest{LastPositionSec: 300})
	require.NoError(t, err)
	_, err = f.env.progress.UpdateProgress(ctx, f.user.ID, second.ID, &UpdateProgressRequest{LastPositionSec: 50})
	require.NoError(t, err)

	percent, err := f.env.progress.MinorProgress(f.user.ID, f.minor.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, percent)

	// 加入第三个没看过的视频，均值被摊薄
	f.env.createVideo(t, f.minor.ID, "select语句", 100)
	percent, err = f.env.progress.MinorProgress(f.user.ID, f.minor.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, percent)
}

func TestMinorProgressZeroVideos(t *testing.T) {
	f := newProgressFixture(t)

	empty := f.env.createUnit(t, f.major.ID, "空单元", 2)

	// 无视频的单元返回0而不是报错
	percent, err := f.env.progress.MinorProgress(f.user.ID, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, percent)
}

func TestMajorProgressRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "student@test.com")
	major := env.createCourse(t, "Go进阶")

	_, err := env.progress.MajorProgress(context.Background(), user.ID, major.ID)
	require.ErrorIs(t, err, util.ErrEnrollmentNotActive)
}

func TestOverallProgressAcrossCourses(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	// 第二门课：已报名，一个视频看了一半
	major2 := f.env.createCourse(t, "数据库")
	minor2 := f.env.createUnit(t, major2.ID, "索引", 1)
	f.env.activeEnrollment(t, f.user.ID, major2.ID)
	video2 := f.env.createVideo(t, minor2.ID, "B+树", 200)

	// 第三门课：仅pending，其视频不参与统计
	major3 := f.env.createCourse(t, "操作系统")
	minor3 := f.env.createUnit(t, major3.ID, "调度", 1)
	f.env.createVideo(t, minor3.ID, "进程", 100)
	_, err := f.env.enrollment.Enroll(f.user.ID, major3.ID)
	require.NoError(t, err)

	_, err = f.env.progress.UpdateProgress(ctx, f.user.ID, f.video.ID, &UpdateProgressRequest{LastPositionSec: 300})
	require.NoError(t, err)
	_, err = f.env.progress.UpdateProgress(ctx, f.user.ID, video2.ID, &UpdateProgressRequest{LastPositionSec: 100})
	require.NoError(t, err)

	// (100 + 50) / 2 = 75
	percent, err := f.env.progress.OverallProgress(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, percent)
}

func TestOverallProgressNoEnrollments(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "student@test.com")

	percent, err := env.progress.OverallProgress(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, percent)
}

package database

import (
	"edu_mission_backend/internal/config"
	"edu_mission_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 唯一键冲突需要映射成 ErrDuplicatedKey，重复提交检测依赖这一点
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 执行AutoMigrate，测试用的sqlite库也走这里
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.MajorCategory{},
		&model.MinorCategory{},
		&model.Video{},
		&model.Enrollment{},
		&model.Mission{},
		&model.Question{},
		&model.QuestionOption{},
		&model.TestCase{},
		&model.MissionSubmission{},
		&model.QuestionSubmission{},
		&model.CodeEvaluation{},
		&model.UserProgress{},
	)
}

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/account"
	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/internal/features/enrollment"
	"github.com/mo-amir99/coursehub-server-go/internal/features/feedback"
	"github.com/mo-amir99/coursehub-server-go/internal/features/lecture"
	"github.com/mo-amir99/coursehub-server-go/internal/features/progress"
	"github.com/mo-amir99/coursehub-server-go/internal/features/watchlist"
	"github.com/mo-amir99/coursehub-server-go/pkg/config"
	"github.com/mo-amir99/coursehub-server-go/pkg/database/migrations"
)

// Models lists every table owned by the application, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&account.Account{},
		&course.Course{},
		&lecture.Lecture{},
		&lecture.Video{},
		&enrollment.Enrollment{},
		&progress.VideoProgress{},
		&feedback.Feedback{},
		&watchlist.Entry{},
	}
}

func init() {
	migrations.Register(
		foreignKey("lectures", "fk_lectures_course", "course_id", "courses", "CASCADE"),
		foreignKey("videos", "fk_videos_lecture", "lecture_id", "lectures", "CASCADE"),
		foreignKey("video_progress", "fk_video_progress_video", "video_id", "videos", "CASCADE"),
		foreignKey("video_progress", "fk_video_progress_student", "student_id", "accounts", "CASCADE"),
		foreignKey("enrollments", "fk_enrollments_course", "course_id", "courses", "CASCADE"),
		foreignKey("enrollments", "fk_enrollments_student", "student_id", "accounts", "CASCADE"),
		foreignKey("feedback", "fk_feedback_course", "course_id", "courses", "CASCADE"),
		foreignKey("feedback", "fk_feedback_student", "student_id", "accounts", "CASCADE"),
		foreignKey("watchlist", "fk_watchlist_course", "course_id", "courses", "CASCADE"),
		foreignKey("watchlist", "fk_watchlist_student", "student_id", "accounts", "CASCADE"),
		foreignKey("courses", "fk_courses_instructor", "instructor_id", "accounts", "RESTRICT"),
		check("feedback", "chk_feedback_rating", "rating BETWEEN 1 AND 5"),
		check("video_progress", "chk_video_progress_times", `"current_time" >= 0 AND duration >= 0`),
		check("courses", "chk_courses_rating", "rating BETWEEN 0 AND 5"),
	)
}

func foreignKey(table, name, column, refTable, onDelete string) migrations.Step {
	return migrations.SQL(name, fmt.Sprintf(`DO $$ BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[2]s') THEN
		ALTER TABLE %[1]s ADD CONSTRAINT %[2]s FOREIGN KEY (%[3]s) REFERENCES %[4]s(id) ON DELETE %[5]s;
	END IF;
END $$;`, table, name, column, refTable, onDelete))
}

func check(table, name, expr string) migrations.Step {
	return migrations.SQL(name, fmt.Sprintf(`DO $$ BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[2]s') THEN
		ALTER TABLE %[1]s ADD CONSTRAINT %[2]s CHECK (%[3]s);
	END IF;
END $$;`, table, name, expr))
}

// ApplyDatabaseMigrations runs the registered constraint migrations when enabled.
func ApplyDatabaseMigrations(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Database.RunMigrations {
		logger.Info("database migrations skipped", slog.String("env_var", "DB_RUN_MIGRATIONS=false"))
		return nil
	}

	if err := migrations.Run(ctx, db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database migrations applied successfully", slog.Int("steps", len(migrations.Registered())))
	return nil
}

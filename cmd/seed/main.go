package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/repository/memory"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var dryRun bool

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入班次类型, 3: 插入团队, 4: 插入排班)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量（排班时表示天数）")
	flag.BoolVar(&dryRun, "dry-run", false, "使用内存存储试运行，不写数据库")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var repo repository.Repository
	if dryRun {
		repo = memory.New()
	} else {
		// 创建数据库连接池
		dbpool, err := sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			logger.Error("无法创建数据库连接池", "error", err)
			return
		}
		defer dbpool.Close()

		dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		defer cancel()

		// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
		if err := dbpool.PingContext(ctx); err != nil {
			logger.Error("无法连接到数据库", "error", err)
			return
		}

		repo = repository.NewPostgres(cfg, dbpool)
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			count := seed.SeedUsers(repo, n, cfg.Seed.User.Password, cfg.Email.UserDomain)
			slog.Info("插入用户成功", slog.Int("count", count))
		}
	case 2:
		count := seed.SeedShiftTypes(repo)
		slog.Info("插入班次类型成功", slog.Int("count", count))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的团队数量")
		} else {
			count := seed.SeedTeams(repo, n)
			slog.Info("插入团队成功", slog.Int("count", count))
		}
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的天数")
		} else {
			count := seed.SeedRota(repo, n)
			slog.Info("插入排班成功", slog.Int("count", count))
		}
	default:
		slog.Error("不支持的操作", slog.Int("op", op))
	}
}

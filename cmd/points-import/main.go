// 点位导入工具：读取 JSON 目录文件，校验后整体替换 PostgreSQL 点位表（文件外的旧点位被删除）
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"greenlink/internal/catalog"
	"greenlink/internal/logger"
	"greenlink/internal/migrate"
	"greenlink/internal/store"
	"greenlink/internal/utils"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()

	def := os.Getenv("CATALOG_PATH")
	if def == "" {
		def = filepath.Join("data", "catalog", "points.json")
	}
	path := flag.String("file", def, "points JSON file ([lat, lng] coords)")
	builtin := flag.Bool("builtin", false, "import the built-in San Ramón points instead of a file")
	flag.Parse()

	var (
		cat *catalog.Catalog
		err error
	)
	if *builtin {
		cat = catalog.Default()
	} else {
		cat, err = catalog.LoadFile(*path)
	}
	if err != nil {
		l.Error("catalog_load_error", "path", *path, "err", err)
		os.Exit(1)
	}

	if cat.Len() == 0 {
		l.Error("catalog_empty", "path", *path)
		os.Exit(1)
	}
	if err := run(cat); err != nil {
		l.Error("points_import_error", "err", err)
		os.Exit(1)
	}
	l.Info("points_import_ok", "count", cat.Len(), "version", cat.Version())
}

// run：建表并整体替换点位表；连接在返回前关闭
func run(cat *catalog.Catalog) error {
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrate.EnsureSchema(db); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return store.AttachDB(db).UpsertPoints(ctx, cat.Points())
}

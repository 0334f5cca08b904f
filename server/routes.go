package server

import (
	storageengine "KzDB/storage_engine"
	heapfile "KzDB/storage_engine/access/heapfile_manager"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultScanLimit = 1000

type kv struct {
	Key   uint64 `json:"key"`
	Value string `json:"value"`
}

func SetupRoutes(router fiber.Router, engine *storageengine.StorageEngine, logger *zap.Logger) {
	router.Get("/keys/:key", func(c *fiber.Ctx) error {
		key, err := parseKey(c.Params("key"))
		if err != nil {
			return err
		}
		value, ok, err := engine.Get(key)
		if err != nil {
			return err
		}
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "key not found")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		return c.Send(value)
	})

	router.Put("/keys/:key", func(c *fiber.Ctx) error {
		key, err := parseKey(c.Params("key"))
		if err != nil {
			return err
		}
		replaced, err := engine.Put(key, c.Body())
		if errors.Is(err, heapfile.ErrTupleTooLarge) {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
		}
		if err != nil {
			return err
		}
		logger.Debug("put", zap.Uint64("key", key), zap.Int("bytes", len(c.Body())))
		return c.JSON(fiber.Map{"key": key, "replaced": replaced})
	})

	router.Get("/scan", func(c *fiber.Ctx) error {
		from, to := uint64(0), uint64(math.MaxUint64)
		var err error
		if s := c.Query("from"); s != "" {
			if from, err = parseKey(s); err != nil {
				return err
			}
		}
		if s := c.Query("to"); s != "" {
			if to, err = parseKey(s); err != nil {
				return err
			}
		}
		limit := c.QueryInt("limit", defaultScanLimit)
		if limit <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be positive")
		}

		items := make([]kv, 0)
		err = engine.Scan(from, to, func(key uint64, value []byte) bool {
			items = append(items, kv{Key: key, Value: string(value)})
			return len(items) < limit
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"items": items, "count": len(items)})
	})

	router.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := engine.Stats()
		if err != nil {
			return err
		}
		return c.JSON(stats)
	})
}

func parseKey(s string) (uint64, error) {
	key, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "key must be an unsigned integer: "+s)
	}
	return key, nil
}

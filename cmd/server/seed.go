package main

import (
	"context"
	"time"

	"github.com/iliyamo/liftpass/internal/model"
	"github.com/iliyamo/liftpass/internal/pricing"
)

// seedMemory loads the same rows schema.sql inserts into MySQL.
func seedMemory(ctx context.Context, store *pricing.MemoryStore) error {
	for passType, cost := range map[string]int{model.DayPass: 35, model.NightPass: 19} {
		if err := store.SetBaseCost(ctx, passType, cost); err != nil {
			return err
		}
	}
	for _, day := range []string{"2019-02-18", "2019-02-25", "2019-03-04"} {
		date, err := time.Parse(model.DateLayout, day)
		if err != nil {
			return err
		}
		if err := store.AddHoliday(ctx, model.Holiday{Date: date}); err != nil {
			return err
		}
	}
	return nil
}

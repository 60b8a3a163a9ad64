// Package presence exports metrics over the durable session log, for
// deployments running the psql-backed directory. It polls the store on
// an interval; the relay itself is never touched.
package presence

import (
	"context"
	"time"

	"github.com/gitkarasune/Sketch-MQ/backend"
	"github.com/gitkarasune/Sketch-MQ/backend/psql"
)

const maxErrors = 3

func ScanLoop(ctx context.Context, pb *psql.Backend, interval time.Duration) error {
	logger := backend.Logger(ctx)

	errCount := 0
	for {
		t := time.After(interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t:
			if err := scan(pb); err != nil {
				errCount++
				logger.Printf("scan error [%d/%d]: %s", errCount, maxErrors, err)
				if errCount > maxErrors {
					logger.Printf("maximum scan errors exceeded, terminating")
					return err
				}
				continue
			}
			errCount = 0
		}
	}
}

func scan(pb *psql.Backend) error {
	entries, err := pb.DbMap.Select(
		psql.SessionLog{},
		"SELECT session_id, room_id, user_id, joined, parted FROM session_log WHERE parted IS NULL")
	if err != nil {
		return err
	}

	openPerRoom := map[string]int{}
	users := map[string]bool{}
	for _, row := range entries {
		entry := row.(*psql.SessionLog)
		openPerRoom[entry.RoomID]++
		users[entry.UserID] = true
	}

	liveRooms, err := pb.DbMap.SelectInt("SELECT count(*) FROM room WHERE reclaimed IS NULL")
	if err != nil {
		return err
	}

	openSessionCount.Set(float64(len(entries)))
	uniqueUserCount.Set(float64(len(users)))
	liveRoomCount.Set(float64(liveRooms))

	openSessionCountPerRoom.Reset()
	for roomID, count := range openPerRoom {
		openSessionCountPerRoom.WithLabelValues(roomID).Set(float64(count))
	}

	return nil
}

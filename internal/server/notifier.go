package server

import (
	"context"
	"fmt"
	"time"

	"serium/internal/client"
	"serium/internal/misc"
	"serium/internal/model"
)

func (s Server) CheckLowStockInInterval(ctx context.Context, ticker *time.Ticker) {
	for range ticker.C {
		s.checkLowStock(ctx)
	}
}

// checkLowStock pushes an FCM notification for every item at or below the
// configured low stock threshold. Best-effort: failures are logged and never
// interrupt the sweep.
func (s Server) checkLowStock(ctx context.Context) {
	settings, err := s.settingsSnapshot(ctx)
	if err != nil {
		s.Logger.Errorf("checkLowStock: Error getting settings snapshot, err: %v", err)
		return
	}
	if !settings.Features.Notifications {
		s.Logger.Debug("checkLowStock: Notifications are disabled")
		return
	}

	is, err := s.DB.ItemsFindAll(ctx)
	if err != nil {
		s.Logger.Errorf("checkLowStock: Error getting all Items from DB, err: %v", err)
		return
	}
	var low []model.Item
	for _, i := range is {
		if i.Quantity <= settings.LowStockThreshold {
			low = append(low, i)
		}
	}
	if len(low) == 0 {
		s.Logger.Debugf("checkLowStock: No Items at or below threshold %d", settings.LowStockThreshold)
		return
	}
	s.Logger.Infof("checkLowStock: %d Item(s) at or below threshold %d", len(low), settings.LowStockThreshold)

	us, err := s.DB.UsersFindWithFCMTokens(ctx)
	if err != nil {
		s.Logger.Errorf("checkLowStock: Error getting Users with FCM tokens, err: %v", err)
		return
	}
	seen := make(map[string]bool)
	var fcmTokens []string
	for _, u := range us {
		for _, d := range u.Devices {
			if d.FCMToken != "" && !seen[d.FCMToken] {
				seen[d.FCMToken] = true
				fcmTokens = append(fcmTokens, d.FCMToken)
			}
		}
	}
	if len(fcmTokens) == 0 {
		s.Logger.Debug("checkLowStock: No Devices registered for notifications")
		return
	}

	for _, i := range low {
		itemName := misc.StringLimit(i.Name, 45)
		fcmReq := client.FCMSendRequest{
			Notification: client.FCMNotification{
				Title:       "Low stock alert",
				Body:        fmt.Sprintf("%s is down to %d in stock", itemName, i.Quantity),
				ClickAction: "FLUTTER_NOTIFICATION_CLICK",
				Sound:       "default",
			},
			Data:            client.FCMData{ItemID: i.ID.Hex()},
			RegistrationIDs: fcmTokens,
		}
		s.Logger.Debugf("checkLowStock: FCMSendRequest for Item: %s, ID: %s, req: %+v", itemName, i.ID.Hex(), fcmReq)
		fcmResp, err := s.Client.FCMSendNotification(fcmReq)
		if err != nil {
			s.Logger.Errorf("checkLowStock: Error sending notification for Item: %s, ID: %s, err: %v", itemName, i.ID.Hex(), err)
			continue
		}
		s.Logger.Infof("checkLowStock: Notification results for Item: %s, ID: %s, success: %d, failure: %d",
			itemName, i.ID.Hex(), fcmResp.Success, fcmResp.Failure)
	}
}

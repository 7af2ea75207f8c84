package nbapi

import (
	"context"
	"fmt"

	"github.com/fbettag/easymesh-monitor/internal/easymesh"
)

// SendClientSteeringRequest asks the controller to steer a station to a
// different cell.
func (c *Client) SendClientSteeringRequest(ctx context.Context, stationMAC, targetBSSID string) error {
	payload := map[string]any{
		"username":   c.username,
		"password":   c.password,
		"sendresp":   true,
		"commandKey": "",
		"command":    "X_PRPL-ORG_WiFiController.Network.ClientSteering",
		"inputArgs": map[string]any{
			"station_mac":  stationMAC,
			"target_bssid": targetBSSID,
		},
	}
	return c.SendCommand(ctx, payload)
}

// SendVBSSMoveRequest asks the controller to move a client's virtual
// BSS to another radio. The command is addressed at the data-model node
// of the cell being moved.
func (c *Client) SendVBSSMoveRequest(ctx context.Context, clientMAC, destRUID, ssid, password string, bss *easymesh.BSS) error {
	deviceIdx := ParseIndexByKey(bss.Path, "Device")
	radioIdx := ParseIndexByKey(bss.Path, "Radio")
	bssIdx := ParseIndexByKey(bss.Path, "BSS")
	payload := map[string]any{
		"sendresp":   true,
		"commandKey": "",
		"command": fmt.Sprintf("Device.WiFi.DataElements.Network.Device.%s.Radio.%s.BSS.%s.TriggerVBSSMove",
			deviceIdx, radioIdx, bssIdx),
		"inputArgs": map[string]any{
			"client_mac": clientMAC,
			"dest_ruid":  destRUID,
			"ssid":       ssid,
			"pass":       password,
		},
	}
	return c.SendCommand(ctx, payload)
}

// SendVBSSCreationRequest asks the controller to create a dedicated
// virtual BSS for a client on the given radio.
func (c *Client) SendVBSSCreationRequest(ctx context.Context, vbssid, clientMAC, ssid, password string, radio *easymesh.Radio) error {
	deviceIdx := ParseIndexByKey(radio.Path, "Device")
	radioIdx := ParseIndexByKey(radio.Path, "Radio")
	payload := map[string]any{
		"sendresp":   true,
		"commandKey": "",
		"command": fmt.Sprintf("Device.WiFi.DataElements.Network.Device.%s.Radio.%s.TriggerVBSSCreation",
			deviceIdx, radioIdx),
		"inputArgs": map[string]any{
			"vbssid":     vbssid,
			"client_mac": clientMAC,
			"ssid":       ssid,
			"pass":       password,
		},
	}
	return c.SendCommand(ctx, payload)
}

// SendVBSSDestructionRequest asks the controller to tear down a virtual
// BSS, optionally disassociating its clients first.
func (c *Client) SendVBSSDestructionRequest(ctx context.Context, clientMAC string, shouldDisassociate bool, bss *easymesh.BSS) error {
	deviceIdx := ParseIndexByKey(bss.Path, "Device")
	radioIdx := ParseIndexByKey(bss.Path, "Radio")
	bssIdx := ParseIndexByKey(bss.Path, "BSS")
	payload := map[string]any{
		"sendresp":   true,
		"commandKey": "",
		"command": fmt.Sprintf("Device.WiFi.DataElements.Network.Device.%s.Radio.%s.BSS.%s.TriggerVBSSDestruction",
			deviceIdx, radioIdx, bssIdx),
		"inputArgs": map[string]any{
			"client_mac":          clientMAC,
			"should_disassociate": shouldDisassociate,
		},
	}
	return c.SendCommand(ctx, payload)
}

package testutils

import (
	"github.com/fbettag/easymesh-monitor/internal/easymesh"
	"github.com/fbettag/easymesh-monitor/internal/nbapi"
)

// Well-known identifiers of the sample mesh, shared between tests.
const (
	SampleControllerID = "aa:bb:cc:00:00:01"
	SampleExtenderID   = "aa:bb:cc:00:00:02"
	SampleStation1MAC  = "dd:ee:ff:00:00:01"
	SampleStation2MAC  = "dd:ee:ff:00:00:02"
	SampleSSID         = "MeshNet"
)

// SampleMeshRecords is a canned two-device network dump: a controller
// with a wired extender behind it and one associated station on each.
func SampleMeshRecords() []nbapi.Record {
	const (
		ctrlPath      = "Device.WiFi.DataElements.Network.Device.1."
		extPath       = "Device.WiFi.DataElements.Network.Device.2."
		ctrlRadioPath = ctrlPath + "Radio.1."
		extRadioPath  = extPath + "Radio.1."
	)
	return []nbapi.Record{
		{Path: "Device.WiFi.DataElements.Network.", Parameters: easymesh.Params{"ControllerID": SampleControllerID}},

		{Path: ctrlPath, Parameters: easymesh.Params{"ID": SampleControllerID}},
		{Path: ctrlPath + "Interface.1.", Parameters: easymesh.Params{"MACAddress": "aa:bb:cc:00:00:11", "MediaType": float64(0x1)}},
		{Path: ctrlPath + "Interface.2.", Parameters: easymesh.Params{"MACAddress": "aa:bb:cc:00:00:12", "MediaType": float64(0x108)}},
		{Path: ctrlPath + "Interface.1.Neighbor.1.", Parameters: easymesh.Params{"ID": "aa:bb:cc:00:00:21"}},

		{Path: extPath, Parameters: easymesh.Params{"ID": SampleExtenderID}},
		{Path: extPath + "Interface.1.", Parameters: easymesh.Params{"MACAddress": "aa:bb:cc:00:00:21", "MediaType": float64(0x1)}},
		{Path: extPath + "Interface.2.", Parameters: easymesh.Params{"MACAddress": "aa:bb:cc:00:00:22", "MediaType": float64(0x108)}},
		{Path: extPath + "MultiAPDevice.Backhaul.", Parameters: easymesh.Params{"LinkType": "Ethernet", "MACAddress": "aa:bb:cc:00:00:21"}},

		{Path: ctrlRadioPath, Parameters: easymesh.Params{"ID": "aa:bb:cc:00:00:12"}},
		{Path: ctrlRadioPath + "BSS.1.", Parameters: easymesh.Params{"BSSID": "aa:bb:cc:00:00:31", "SSID": SampleSSID}},
		{Path: ctrlRadioPath + "BSS.1.STA.1.", Parameters: easymesh.Params{"MACAddress": SampleStation1MAC, "RSSI": float64(-40)}},

		{Path: extRadioPath, Parameters: easymesh.Params{"ID": "aa:bb:cc:00:00:22"}},
		{Path: extRadioPath + "BSS.1.", Parameters: easymesh.Params{"BSSID": "aa:bb:cc:00:00:32", "SSID": SampleSSID}},
		{Path: extRadioPath + "BSS.1.STA.1.", Parameters: easymesh.Params{"MACAddress": SampleStation2MAC, "SignalStrength": float64(-55)}},
	}
}

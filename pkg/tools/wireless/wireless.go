// Package wireless adapts the 802.11 tooling: aircrack-ng's airmon-ng and
// airodump-ng, wash, kismet and bettercap. All of them need root and a
// capable interface; the server does not check either.
package wireless

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
)

const (
	defaultReconSeconds = 30
	defaultSpoofSeconds = 60
)

type InterfaceInput struct {
	tools.Page
	Interface string `json:"interface" jsonschema:"wireless interface, e.g. wlan0" validate:"required,ifname"`
}

type AirmonCheckInput struct {
	tools.Page
}

type AirodumpScanInput struct {
	tools.Page
	Interface  string `json:"interface" jsonschema:"interface in monitor mode, e.g. wlan0mon" validate:"required,ifname"`
	Channel    int    `json:"channel,omitempty" jsonschema:"lock to one channel; hop when omitted" validate:"min=0,max=196"`
	OutputFile string `json:"output_file,omitempty" jsonschema:"capture file prefix" validate:"omitempty,noflag,safearg"`
}

type HandshakeInput struct {
	tools.Page
	Interface  string `json:"interface" jsonschema:"interface in monitor mode" validate:"required,ifname"`
	BSSID      string `json:"bssid" jsonschema:"access point MAC address" validate:"required,mac"`
	Channel    int    `json:"channel" jsonschema:"access point channel" validate:"required,min=1,max=196"`
	OutputFile string `json:"output_file" jsonschema:"capture file prefix" validate:"required,noflag,safearg"`
}

type WashInput struct {
	tools.Page
	Interface string `json:"interface" jsonschema:"interface in monitor mode" validate:"required,ifname"`
	Channel   int    `json:"channel,omitempty" jsonschema:"lock to one channel" validate:"min=0,max=196"`
}

type KismetInput struct {
	tools.Page
	Interface string `json:"interface" jsonschema:"capture source interface" validate:"required,ifname"`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"log file prefix" validate:"omitempty,noflag,safearg"`
}

type WifiReconInput struct {
	tools.Page
	Interface string `json:"interface" jsonschema:"wireless interface" validate:"required,ifname"`
	Duration  int    `json:"duration,omitempty" jsonschema:"seconds to collect before printing (default 30)" validate:"min=0,max=3600"`
}

type ArpSpoofInput struct {
	tools.Page
	Interface string `json:"interface" jsonschema:"interface on the target network" validate:"required,ifname"`
	Target    string `json:"target" jsonschema:"target address or CIDR" validate:"required,ip|cidr"`
	Duration  int    `json:"duration,omitempty" jsonschema:"seconds to keep spoofing (default 60)" validate:"min=0,max=3600"`
}

func airmon(action string) func(InterfaceInput) (tools.Command, error) {
	return func(in InterfaceInput) (tools.Command, error) {
		return tools.Command{Args: []string{action, in.Interface}, Subject: in.Interface}, nil
	}
}

func buildAirmonCheck(AirmonCheckInput) (tools.Command, error) {
	return tools.Command{Args: []string{"check"}, Subject: "interfering processes"}, nil
}

func buildAirodumpScan(in AirodumpScanInput) (tools.Command, error) {
	args := []string{in.Interface}
	if in.Channel > 0 {
		args = append(args, "-c", strconv.Itoa(in.Channel))
	}
	if in.OutputFile != "" {
		args = append(args, "-w", in.OutputFile)
	}
	return tools.Command{Args: args, Subject: in.Interface}, nil
}

func buildHandshake(in HandshakeInput) (tools.Command, error) {
	return tools.Command{
		Args:    []string{"-c", strconv.Itoa(in.Channel), "--bssid", in.BSSID, "-w", in.OutputFile, in.Interface},
		Subject: in.BSSID,
	}, nil
}

func buildWash(in WashInput) (tools.Command, error) {
	args := []string{"-i", in.Interface}
	if in.Channel > 0 {
		args = append(args, "-c", strconv.Itoa(in.Channel))
	}
	return tools.Command{Args: args, Subject: in.Interface}, nil
}

func buildKismet(in KismetInput) (tools.Command, error) {
	args := []string{"-c", in.Interface}
	if in.OutputDir != "" {
		args = append(args, "--log-prefix", in.OutputDir)
	}
	return tools.Command{Args: args, Subject: in.Interface}, nil
}

func seconds(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

// Bettercap reads further commands from stdin after -eval; the runner gives
// it none, so each script ends with quit.
func buildWifiRecon(in WifiReconInput) (tools.Command, error) {
	duration := seconds(in.Duration, defaultReconSeconds)
	script := fmt.Sprintf("wifi.recon on; sleep %d; wifi.show; quit", duration)
	return tools.Command{
		Args:    []string{"-iface", in.Interface, "-eval", script},
		Subject: in.Interface,
		Timeout: time.Duration(duration)*time.Second + time.Minute,
	}, nil
}

func buildArpSpoof(in ArpSpoofInput) (tools.Command, error) {
	duration := seconds(in.Duration, defaultSpoofSeconds)
	script := fmt.Sprintf(
		"set arp.spoof.targets %s; set arp.spoof.fullduplex true; arp.spoof on; sleep %d; arp.spoof off; quit",
		in.Target, duration)
	return tools.Command{
		Args:    []string{"-iface", in.Interface, "-eval", script},
		Subject: in.Target,
		Timeout: time.Duration(duration)*time.Second + time.Minute,
	}, nil
}

func Operations(logger zerolog.Logger) []tools.Tool {
	return []tools.Tool{
		tools.NewOperation(logger, tools.Operation[InterfaceInput]{
			Name:        "airmon_start_monitor",
			Tool:        "airmon-ng",
			Title:       "Airmon-ng Start Result",
			Description: "Put a wireless interface into monitor mode.",
			Build:       airmon("start"),
		}),
		tools.NewOperation(logger, tools.Operation[InterfaceInput]{
			Name:        "airmon_stop_monitor",
			Tool:        "airmon-ng",
			Title:       "Airmon-ng Stop Result",
			Description: "Return a wireless interface to managed mode.",
			Build:       airmon("stop"),
		}),
		tools.NewOperation(logger, tools.Operation[AirmonCheckInput]{
			Name:        "airmon_check",
			Tool:        "airmon-ng",
			Title:       "Airmon-ng Check Result",
			Description: "List processes that may interfere with monitor mode.",
			Timeout:     30 * time.Second,
			Build:       buildAirmonCheck,
		}),
		tools.NewOperation(logger, tools.Operation[AirodumpScanInput]{
			Name:        "airodump_scan",
			Tool:        "airodump-ng",
			Title:       "Airodump-ng Scan Result",
			Description: "Capture beacons to list nearby access points and clients.",
			Build:       buildAirodumpScan,
		}),
		tools.NewOperation(logger, tools.Operation[HandshakeInput]{
			Name:        "airodump_capture_handshake",
			Tool:        "airodump-ng",
			Title:       "Airodump-ng Handshake Capture",
			Description: "Capture WPA handshakes from one access point to a file.",
			Timeout:     30 * time.Minute,
			Build:       buildHandshake,
		}),
		tools.NewOperation(logger, tools.Operation[WashInput]{
			Name:        "wash_scan",
			Tool:        "wash",
			Title:       "Wash WPS Scan Result",
			Description: "List access points with WPS enabled.",
			Build:       buildWash,
		}),
		tools.NewOperation(logger, tools.Operation[KismetInput]{
			Name:        "kismet_start",
			Tool:        "kismet",
			Title:       "Kismet Result",
			Description: "Run Kismet on an interface until the tool timeout.",
			Build:       buildKismet,
		}),
		tools.NewOperation(logger, tools.Operation[WifiReconInput]{
			Name:        "bettercap_wifi_recon",
			Tool:        "bettercap",
			Title:       "Bettercap WiFi Recon Result",
			Description: "Collect nearby WiFi stations with bettercap and print them.",
			Build:       buildWifiRecon,
		}),
		tools.NewOperation(logger, tools.Operation[ArpSpoofInput]{
			Name:        "bettercap_arp_spoof",
			Tool:        "bettercap",
			Title:       "Bettercap ARP Spoof Result",
			Description: "ARP spoof a target for a fixed duration. Only use on networks you are authorised to test.",
			Timeout:     5 * time.Minute,
			Build:       buildArpSpoof,
		}),
	}
}

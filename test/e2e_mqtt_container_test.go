package test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	coremetrics "github.com/agromw/missiond/core/metrics"
	"github.com/agromw/missiond/core/mission"
	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/core/plan"
	"github.com/agromw/missiond/core/sysconfig"
	"github.com/agromw/missiond/core/validate"
	"github.com/agromw/missiond/infra/logger"
	"github.com/agromw/missiond/infra/mqtt"
)

func waitForMQTTReady(broker string, timeout time.Duration) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		lastErr = token.Error()
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for broker")
	}
	return lastErr
}

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
log_type warning
`
	dir := t.TempDir()
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())
	if err := waitForMQTTReady(broker, 5*time.Second); err != nil {
		t.Logf("mosquitto not ready at %s: %v", broker, err)
		t.Skip("Mosquitto not ready after retries")
	}
	return cont, broker
}

type busMessage struct {
	topic   string
	payload []byte
}

// connectFleetClient subscribes to all mission topics and forwards every
// message to the returned channel.
func connectFleetClient(broker string, t *testing.T) (paho.Client, <-chan busMessage) {
	t.Helper()
	ch := make(chan busMessage, 16)
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("fleet-sim")
	cli := paho.NewClient(opts)
	var connErr error
	for i := 0; i < 5; i++ {
		token := cli.Connect()
		token.Wait()
		connErr = token.Error()
		if connErr == nil {
			break
		}
		time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
	if connErr != nil {
		t.Logf("fleet connect failed to %s: %v", broker, connErr)
		t.Skip("Mosquitto not ready after retries")
	}
	if token := cli.Subscribe("fleet/missions/#", 0, func(_ paho.Client, m paho.Message) {
		ch <- busMessage{topic: m.Topic(), payload: m.Payload()}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe: %v", token.Error())
	}
	return cli, ch
}

func waitForBusMessage(t *testing.T, ch <-chan busMessage, topic string, timeout time.Duration) busMessage {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-ch:
			if msg.topic == topic {
				return msg
			}
		case <-deadline:
			t.Fatalf("no message on %s", topic)
		}
	}
}

func surveyMission() *model.Mission {
	area := model.Region{Area: []model.Position{
		{Longitude: 9.0, Latitude: 45.0},
		{Longitude: 9.001, Latitude: 45.0},
		{Longitude: 9.001, Latitude: 45.001},
		{Longitude: 9.0, Latitude: 45.001},
	}}
	task := model.Task{ID: 1, MissionID: 7, AssignedVehicleID: 1, Area: area}
	return &model.Mission{
		ID:             7,
		Name:           "survey",
		NavigationArea: &area,
		ForbiddenArea:  []model.Region{},
		HomeLocation:   []model.Position{{Longitude: 9.0, Latitude: 45.0}},
		Vehicles:       []model.Vehicle{{ID: 1, Name: "uav-1", Type: model.TypeUAV}},
		Tasks:          []model.Task{task},
		Commands: []model.Command{
			{ID: 1, TypeID: 4, StartTime: 10, EndTime: 20, Params: []float64{1.5}, RelatedTask: task},
		},
	}
}

func newManager(pub *mqtt.PahoPublisher) *mission.Manager {
	return mission.NewManager(mission.Deps{
		Validator:   validate.New(logger.NopLogger{}),
		Extractor:   plan.NewExtractor(logger.NopLogger{}),
		Synthesizer: plan.NewSynthesizer(plan.MapConfig{}, logger.NopLogger{}),
		Publisher:   pub,
		Metrics:     coremetrics.NopSink{},
		Logger:      logger.NopLogger{},
	})
}

func TestMissionDispatchWithMQTTContainer(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()

	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	fleetCli, messages := connectFleetClient(broker, t)
	defer fleetCli.Disconnect(100)

	pub, err := mqtt.NewPahoPublisher(mqtt.Config{Broker: broker, ClientID: "dispatcher"})
	if err != nil {
		t.Fatalf("mqtt publisher: %v", err)
	}
	defer pub.Disconnect()

	mgr := newManager(pub)
	mgr.Dispatch(1, surveyMission())

	msg := waitForBusMessage(t, messages, "fleet/missions/survey/UAV/uav-1/mission", 5*time.Second)
	var vp model.VehiclePlan
	if err := json.Unmarshal(msg.payload, &vp); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if vp.VehicleID != 1 {
		t.Errorf("vehicle id: got %d", vp.VehicleID)
	}
	if len(vp.CommandArray) != 1 {
		t.Fatalf("commands: got %d", len(vp.CommandArray))
	}

	if res := mgr.AbortVehicle(1); res != mission.ResultOK {
		t.Fatalf("abort: %s", res)
	}
	msg = waitForBusMessage(t, messages, "fleet/missions/survey/UAV/uav-1/event", 5*time.Second)
	var ev struct {
		VehicleID   int `json:"vehicle_id"`
		EventTypeID int `json:"event_type_id"`
	}
	if err := json.Unmarshal(msg.payload, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.VehicleID != 1 || ev.EventTypeID != 2 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

type fixedRegistry struct{ n int }

func (r fixedRegistry) CountVehicles(context.Context) (int, error) { return r.n, nil }

func TestSysConfigRoundTripWithMQTTContainer(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()

	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	pub, err := mqtt.NewPahoPublisher(mqtt.Config{Broker: broker, ClientID: "dispatcher"})
	if err != nil {
		t.Fatalf("mqtt publisher: %v", err)
	}
	defer pub.Disconnect()
	requester, err := mqtt.NewConfigRequester(pub)
	if err != nil {
		t.Fatalf("config requester: %v", err)
	}

	// Each vehicle is simulated by answering the broadcast once.
	simOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("vehicle-sim")
	sim := paho.NewClient(simOpts)
	if token := sim.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("sim connect: %v", token.Error())
	}
	defer sim.Disconnect(100)
	if token := sim.Subscribe("fleet/sysconfig/request", 0, func(cli paho.Client, m paho.Message) {
		var req struct {
			RequestID string `json:"request_id"`
			Expected  int    `json:"expected"`
		}
		if err := json.Unmarshal(m.Payload(), &req); err != nil {
			return
		}
		for i := 0; i < req.Expected; i++ {
			payload, _ := json.Marshal(map[string]any{"request_id": req.RequestID, "vehicle_id": i + 1})
			cli.Publish("fleet/sysconfig/response", 0, false, payload)
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("sim subscribe: %v", token.Error())
	}

	tracker := sysconfig.New(requester, fixedRegistry{n: 2}, 5*time.Second, 5, logger.NopLogger{})
	requester.SetListener(tracker)

	if st := tracker.RequestStatus(ctx, "req-1"); st != sysconfig.StatusAccepted {
		t.Fatalf("request status: %s", st)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if st, _ := tracker.Current(); st == sysconfig.StatusCompleted {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	st, _ := tracker.Current()
	t.Fatalf("cycle never completed, status %s", st)
}

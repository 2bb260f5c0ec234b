// Package plants manages the plant roster with file watching and persistence.
package plants

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/logger"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

// PlantsFile represents the JSON file structure for roster storage.
type PlantsFile struct {
	Plants      []models.Plant `json:"plants"`
	ActivePlant string         `json:"activePlant,omitempty"`
	Version     int            `json:"version,omitempty"`
}

// Event represents a plant service event.
type Event struct {
	Type  EventType
	Error error
	Plant *models.Plant
}

// EventType defines the type of plant event.
type EventType int

const (
	EventPlantsLoaded EventType = iota
	EventPlantsChanged
	EventPlantAdded
	EventPlantDeleted
	EventActivePlantChanged
	EventError
)

// Service manages the plant roster with file watching and change
// notifications. The roster is an editable JSON file so sites can be
// added without rebuilding the dashboard.
type Service struct {
	mu            sync.RWMutex
	plants        []models.Plant
	activePlant   string
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates a new plant service and starts file watching.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		return nil, fmt.Errorf("plants file path is required")
	}

	s := &Service{
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	// Ensure directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load the roster from file
	if err := s.loadPlants(); err != nil {
		// If file doesn't exist, seed it with the default roster
		if os.IsNotExist(err) {
			s.plants = models.DefaultPlants()
			s.activePlant = s.plants[0].Name
			if err := s.savePlants(); err != nil {
				return nil, fmt.Errorf("failed to create plants file: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to load plants: %w", err)
		}
	}

	// Start file watcher
	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventPlantsLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to roster changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// GetPlants returns a copy of the roster.
func (s *Service) GetPlants() []models.Plant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plants := make([]models.Plant, len(s.plants))
	copy(plants, s.plants)
	return plants
}

// GetActivePlant returns the currently selected plant.
func (s *Service) GetActivePlant() *models.Plant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.plants {
		if s.plants[i].Name == s.activePlant || s.plants[i].Code == s.activePlant {
			p := s.plants[i]
			return &p
		}
	}

	// Return first plant if no active plant set
	if len(s.plants) > 0 {
		p := s.plants[0]
		return &p
	}

	return nil
}

// SetActivePlant sets the active plant by name or code.
func (s *Service) SetActivePlant(nameOrCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, p := range s.plants {
		if p.Name == nameOrCode || p.Code == nameOrCode {
			found = true
			s.activePlant = p.Name
			break
		}
	}

	if !found {
		return fmt.Errorf("plant not found: %s", nameOrCode)
	}

	if err := s.savePlantsLocked(); err != nil {
		return fmt.Errorf("failed to save plants: %w", err)
	}

	s.sendEvent(Event{Type: EventActivePlantChanged})
	return nil
}

// AddPlant appends a plant to the roster.
func (s *Service) AddPlant(plant models.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plant.Name == "" {
		return fmt.Errorf("plant name is required")
	}
	for _, p := range s.plants {
		if p.Name == plant.Name {
			return fmt.Errorf("plant %s already exists", plant.Name)
		}
	}

	s.plants = append(s.plants, plant)

	// Select as active if first plant
	if len(s.plants) == 1 {
		s.activePlant = plant.Name
	}

	if err := s.savePlantsLocked(); err != nil {
		// Rollback
		s.plants = s.plants[:len(s.plants)-1]
		return fmt.Errorf("failed to save plants: %w", err)
	}

	s.sendEvent(Event{Type: EventPlantAdded, Plant: &plant})
	return nil
}

// DeletePlant removes a plant by name or code.
func (s *Service) DeletePlant(nameOrCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	var deleted models.Plant
	for i, p := range s.plants {
		if p.Name == nameOrCode || p.Code == nameOrCode {
			idx = i
			deleted = p
			break
		}
	}

	if idx == -1 {
		return fmt.Errorf("plant not found: %s", nameOrCode)
	}

	s.plants = append(s.plants[:idx], s.plants[idx+1:]...)

	// Move selection off the deleted plant
	if s.activePlant == deleted.Name || s.activePlant == deleted.Code {
		if len(s.plants) > 0 {
			s.activePlant = s.plants[0].Name
		} else {
			s.activePlant = ""
		}
	}

	if err := s.savePlantsLocked(); err != nil {
		return fmt.Errorf("failed to save plants: %w", err)
	}

	s.sendEvent(Event{Type: EventPlantDeleted, Plant: &deleted})
	return nil
}

// GetPlantByName returns a plant by its record store name.
func (s *Service) GetPlantByName(name string) *models.Plant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.plants {
		if s.plants[i].Name == name {
			p := s.plants[i]
			return &p
		}
	}
	return nil
}

// Count returns the number of plants in the roster.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plants)
}

// parsePlants parses roster data handling both file formats.
func (s *Service) parsePlants(data []byte) ([]models.Plant, string, error) {
	// 1. Standard PlantsFile format
	var plantsFile PlantsFile
	if err := json.Unmarshal(data, &plantsFile); err == nil && len(plantsFile.Plants) > 0 {
		activePlant := plantsFile.ActivePlant

		if activePlant != "" {
			found := false
			for _, p := range plantsFile.Plants {
				if p.Name == activePlant || p.Code == activePlant {
					found = true
					break
				}
			}
			if !found {
				activePlant = plantsFile.Plants[0].Name
			}
		} else {
			activePlant = plantsFile.Plants[0].Name
		}
		return plantsFile.Plants, activePlant, nil
	}

	// 2. Bare array format
	var plants []models.Plant
	if err := json.Unmarshal(data, &plants); err == nil && len(plants) > 0 {
		return plants, plants[0].Name, nil
	}

	return nil, "", fmt.Errorf("failed to parse plants file: invalid format")
}

// loadPlants loads the roster from the JSON file.
func (s *Service) loadPlants() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	plants, activePlant, err := s.parsePlants(data)
	if err != nil {
		return err
	}

	s.plants = plants
	s.activePlant = activePlant
	return nil
}

// savePlants saves the roster to the JSON file (public version).
func (s *Service) savePlants() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savePlantsLocked()
}

// savePlantsLocked saves the roster to the JSON file (must hold lock).
func (s *Service) savePlantsLocked() error {
	plantsFile := PlantsFile{
		Plants:      s.plants,
		ActivePlant: s.activePlant,
		Version:     1,
	}

	data, err := json.MarshalIndent(plantsFile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plants: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation/deletion)
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our roster file
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.handleFileChange()
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the roster after an external edit.
func (s *Service) handleFileChange() {
	if err := s.loadPlantsWithLock(); err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	logger.Info("plant roster reloaded", "path", s.filePath)
	s.sendEvent(Event{Type: EventPlantsChanged})
}

// loadPlantsWithLock loads the roster while holding the lock.
func (s *Service) loadPlantsWithLock() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	plants, activePlant, err := s.parsePlants(data)
	if err != nil {
		return err
	}

	s.plants = plants
	s.activePlant = activePlant
	return nil
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/vetclinic-api/internal/config"
	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository/postgres"
	animalService "github.com/jwalitptl/vetclinic-api/internal/service/animal"
	appointmentService "github.com/jwalitptl/vetclinic-api/internal/service/appointment"
	tutorService "github.com/jwalitptl/vetclinic-api/internal/service/tutor"
	userService "github.com/jwalitptl/vetclinic-api/internal/service/user"
	"github.com/jwalitptl/vetclinic-api/pkg/clock"
	"github.com/jwalitptl/vetclinic-api/pkg/lock"
	"github.com/jwalitptl/vetclinic-api/pkg/logger"
	"github.com/jwalitptl/vetclinic-api/pkg/security"
)

var (
	species = []string{"dog", "cat", "rabbit", "bird", "hamster"}
	reasons = []string{"annual checkup", "vaccination", "skin irritation", "dental cleaning", "limping", "follow-up"}
)

func main() {
	vets := flag.Int("vets", 5, "number of vets")
	tutors := flag.Int("tutors", 50, "number of tutors")
	perVet := flag.Int("appointments", 8, "appointments per vet")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.Bootstrap.AdminEmail == "" {
		log.Fatal().Msg("bootstrap.admin_email is required to seed")
	}
	appLogger := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Logger = appLogger.Zerolog()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}
	store := postgres.NewStore(db)

	clk := clock.System()
	users := userService.NewService(store.Users(), security.NewBcryptHasher(cfg.Security.BcryptCost), nil, nil, clk)
	tutorSvc := tutorService.NewService(store.Tutors(), store.Animals(), clk)
	animalSvc := animalService.NewService(store.Animals(), store.Tutors(), clk)
	appointments := appointmentService.NewService(store.Appointments(), store.Animals(), store.Users(), store.MedicalRecords(), store,
		lock.NewLocalLocker(), nil, nil, nil, clk, appLogger)

	admin, _, err := users.EnsureAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap admin user")
	}
	actor := admin.Actor()

	vetIDs, err := seedVets(ctx, users, actor, *vets)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed vets")
	}
	animalIDs, err := seedTutors(ctx, tutorSvc, animalSvc, *tutors)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed tutors")
	}
	if err := seedAppointments(ctx, appointments, actor, vetIDs, animalIDs, *perVet); err != nil {
		log.Fatal().Err(err).Msg("failed to seed appointments")
	}

	log.Info().Msg("seed complete")
}

func seedVets(ctx context.Context, users *userService.Service, actor *model.Actor, count int) ([]int64, error) {
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		u, err := users.RegisterUser(ctx, &model.CreateUserRequest{
			Name:     "Dr. " + gofakeit.Name(),
			Email:    fmt.Sprintf("vet%d.%s", i, gofakeit.Email()),
			Password: gofakeit.Password(true, true, true, false, false, 12),
			Role:     model.RoleVet,
		}, actor)
		if err != nil {
			return nil, err
		}
		ids = append(ids, u.ID)
	}
	log.Info().Int("count", count).Msg("vets seeded")
	return ids, nil
}

func seedTutors(ctx context.Context, tutors *tutorService.Service, animals *animalService.Service, count int) ([]int64, error) {
	var animalIDs []int64
	now := time.Now()
	for i := 0; i < count; i++ {
		t, err := tutors.CreateTutor(ctx, &model.CreateTutorRequest{
			Name:    gofakeit.Name(),
			CPF:     gofakeit.Numerify("###########"),
			Email:   fmt.Sprintf("tutor%d.%s", i, gofakeit.Email()),
			Phone:   gofakeit.Phone(),
			Address: gofakeit.Street(),
		})
		if err != nil {
			return nil, err
		}

		pets := gofakeit.Number(1, 3)
		for j := 0; j < pets; j++ {
			born := gofakeit.DateRange(now.AddDate(-15, 0, 0), now.AddDate(0, -2, 0))
			a, err := animals.CreateAnimal(ctx, &model.CreateAnimalRequest{
				Name:      gofakeit.PetName(),
				Species:   species[gofakeit.Number(0, len(species)-1)],
				Breed:     gofakeit.Word(),
				BirthDate: model.NewDate(born.Year(), born.Month(), born.Day()),
				WeightKg:  gofakeit.Float64Range(0.2, 60),
				TutorID:   t.ID,
			})
			if err != nil {
				return nil, err
			}
			animalIDs = append(animalIDs, a.ID)
		}
	}
	log.Info().Int("tutors", count).Int("animals", len(animalIDs)).Msg("tutors seeded")
	return animalIDs, nil
}

// seedAppointments books each vet an hour apart starting tomorrow, well clear
// of the conflict window.
func seedAppointments(ctx context.Context, svc *appointmentService.Service, actor *model.Actor, vetIDs, animalIDs []int64, perVet int) error {
	if len(animalIDs) == 0 {
		return nil
	}
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	total := 0
	for _, vetID := range vetIDs {
		for slot := 0; slot < perVet; slot++ {
			_, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
				AnimalID:    animalIDs[gofakeit.Number(0, len(animalIDs)-1)],
				VetID:       vetID,
				ScheduledAt: start.Add(time.Duration(slot) * time.Hour),
				Reason:      reasons[gofakeit.Number(0, len(reasons)-1)],
			}, actor)
			if err != nil {
				return err
			}
			total++
		}
	}
	log.Info().Int("count", total).Msg("appointments seeded")
	return nil
}

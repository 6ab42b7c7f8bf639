// Package fixtures provides test data factories for integration tests.
//
// Factories insert through the real repositories and return the stored
// models, ids and timestamps included:
//
//	f := fixtures.New(tdb.DB)
//	publisher := f.CreatePublisher(t)
//	bootcamp := f.CreateBootcamp(t, publisher)
//	course := f.CreateCourse(t, bootcamp, publisher, fixtures.WithTuition(12000))
//	review := f.CreateReview(t, bootcamp, f.CreateUser(t), 8)
//
// Names and emails carry a random suffix so unique indexes never collide.
// Every user's password is DefaultPassword.
package fixtures

package dnndata

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"
)

var sensorsMap SensorsMap

// Sensors returns the geometry loaded by LoadDatabase.
func Sensors() SensorsMap {
	return sensorsMap
}

func LoadDatabase(dbConn *sqlx.DB, runNumber int) error {
	var err error
	sensorsMap, err = getSensorsFromDB(dbConn, runNumber)
	if err != nil {
		errMessage := fmt.Errorf("error getting sensors map from database: %w", err)
		logger.Error(errMessage.Error())
		return errMessage
	}
	err = loadTimeOffsetsFromDB(dbConn, runNumber, &sensorsMap)
	if err != nil {
		errMessage := fmt.Errorf("error getting time offsets from database: %w", err)
		logger.Error(errMessage.Error())
		return errMessage
	}
	return nil
}

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type SensorMappingEntry struct {
	ElecID   int `db:"ElecID"`
	SensorID int `db:"SensorID"`
}

type SensorCalibrationEntry struct {
	SensorID   int     `db:"SensorID"`
	TimeOffset float64 `db:"TimeOffset"`
}

func getSensorsFromDB(db *sqlx.DB, runNumber int) (SensorsMap, error) {
	query := "SELECT ElecID, SensorID FROM ChannelMapping WHERE MinRun <= %d and MaxRun >= %d ORDER BY SensorID"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Channel mapping read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return SensorsMap{}, errMessage
	}

	sensors := SensorsMap{
		ToElecID:    make(map[uint16]uint16),
		ToSensorID:  make(map[uint16]uint16),
		TimeOffsets: make(map[uint16]float64),
	}

	for rows.Next() {
		result := SensorMappingEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return SensorsMap{}, errMessage
		}
		sensors.ToElecID[uint16(result.SensorID)] = uint16(result.ElecID)
		sensors.ToSensorID[uint16(result.ElecID)] = uint16(result.SensorID)
	}
	return sensors, nil
}

func loadTimeOffsetsFromDB(db *sqlx.DB, runNumber int, sensors *SensorsMap) error {
	query := "SELECT SensorID, TimeOffset FROM SensorCalibration WHERE MinRun <= %d and MaxRun >= %d"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Sensor time offsets read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return errMessage
	}

	for rows.Next() {
		result := SensorCalibrationEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return errMessage
		}
		// Sensors without a calibration entry keep offset 0.
		sensors.TimeOffsets[uint16(result.SensorID)] = result.TimeOffset
	}
	return nil
}
